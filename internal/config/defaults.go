package config

const (
	defaultInputsDir  = "inputs"
	defaultAudioDir   = "audio"
	defaultOutputDir  = "output"
	defaultLogDir     = ""
	defaultTimebase   = 30
	defaultLeadInSec  = 3.0
	defaultBoundary   = BoundaryFollowing
	defaultThreshold  = 0.6
	defaultCountTol   = 0.05
	defaultTextSimMin = 0.95
	defaultAudioTol   = 0.05
	defaultFFprobe    = "ffprobe"
	defaultPattern    = "%s_%03d.mp3"
	defaultWorkers    = 4
	defaultSampleRate = 24000
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Marker boundary rules. A scene heading that falls between two narration
// segments attaches to the following one by default, matching how outline
// headings introduce the material after them.
const (
	BoundaryFollowing = "following"
	BoundaryPreceding = "preceding"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputsDir: defaultInputsDir,
			AudioDir:  defaultAudioDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Timeline: Timeline{
			Timebase:       defaultTimebase,
			NTSC:           true,
			DropFrame:      false,
			SceneLeadInSec: defaultLeadInSec,
			ClipGapFrames:  0,
			MarkerBoundary: defaultBoundary,
		},
		Allocation: Allocation{
			SimilarityThreshold: defaultThreshold,
		},
		Validation: Validation{
			EntryCountTolerance:       defaultCountTol,
			TextSimilarityMin:         defaultTextSimMin,
			AudioDurationToleranceSec: defaultAudioTol,
		},
		Audio: Audio{
			FFprobeBinary: defaultFFprobe,
			FilePattern:   defaultPattern,
			ProbeWorkers:  defaultWorkers,
			SampleRate:    defaultSampleRate,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
