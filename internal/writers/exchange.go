package writers

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"cuealign/internal/fileutil"
	"cuealign/internal/timeline"
)

// Editors import xmeml timecodes on a fixed tick grid; every position in
// the document must land on it exactly or clips drift on import.
const (
	exchangeVersion = "4"
	audioDepthBits  = 16
)

type xmlRate struct {
	Timebase int    `xml:"timebase"`
	NTSC     string `xml:"ntsc"`
}

type xmlTimecode struct {
	Rate          xmlRate `xml:"rate"`
	String        string  `xml:"string"`
	Frame         int64   `xml:"frame"`
	DisplayFormat string  `xml:"displayformat"`
}

type xmlSampleCharacteristics struct {
	Depth      int `xml:"depth"`
	SampleRate int `xml:"samplerate"`
}

type xmlFileAudio struct {
	SampleCharacteristics xmlSampleCharacteristics `xml:"samplecharacteristics"`
	ChannelCount          int                      `xml:"channelcount"`
}

type xmlFileMedia struct {
	Audio xmlFileAudio `xml:"audio"`
}

type xmlFile struct {
	ID       string       `xml:"id,attr"`
	Name     string       `xml:"name"`
	PathURL  string       `xml:"pathurl"`
	Rate     xmlRate      `xml:"rate"`
	Duration int64        `xml:"duration"`
	Media    xmlFileMedia `xml:"media"`
}

type xmlSourceTrack struct {
	MediaType  string `xml:"mediatype"`
	TrackIndex int    `xml:"trackindex"`
	ClipIndex  int    `xml:"clipindex"`
}

type xmlClipItem struct {
	ID           string         `xml:"id,attr"`
	Name         string         `xml:"name"`
	Enabled      string         `xml:"enabled"`
	Duration     int64          `xml:"duration"`
	Rate         xmlRate        `xml:"rate"`
	Start        int64          `xml:"start"`
	End          int64          `xml:"end"`
	In           int64          `xml:"in"`
	Out          int64          `xml:"out"`
	PProTicksIn  int64          `xml:"pproTicksIn"`
	PProTicksOut int64          `xml:"pproTicksOut"`
	File         xmlFile        `xml:"file"`
	SourceTrack  xmlSourceTrack `xml:"sourcetrack"`
}

type xmlVideoSampleCharacteristics struct {
	Rate   xmlRate `xml:"rate"`
	Width  int     `xml:"width"`
	Height int     `xml:"height"`
}

type xmlVideoFormat struct {
	SampleCharacteristics xmlVideoSampleCharacteristics `xml:"samplecharacteristics"`
}

type xmlVideoTrack struct{}

type xmlVideo struct {
	Format xmlVideoFormat `xml:"format"`
	Track  xmlVideoTrack  `xml:"track"`
}

type xmlAudioTrack struct {
	ClipItems []xmlClipItem `xml:"clipitem"`
}

type xmlAudio struct {
	Tracks []xmlAudioTrack `xml:"track"`
}

type xmlMedia struct {
	Video xmlVideo `xml:"video"`
	Audio xmlAudio `xml:"audio"`
}

type xmlMarker struct {
	Comment string `xml:"comment"`
	Name    string `xml:"name"`
	In      int64  `xml:"in"`
	Out     int64  `xml:"out"`
}

type xmlSequence struct {
	ID       string      `xml:"id,attr"`
	UUID     string      `xml:"uuid"`
	Name     string      `xml:"name"`
	Duration int64       `xml:"duration"`
	Rate     xmlRate     `xml:"rate"`
	Media    xmlMedia    `xml:"media"`
	Timecode xmlTimecode `xml:"timecode"`
	Markers  []xmlMarker `xml:"marker"`
}

type xmlDocument struct {
	XMLName  xml.Name    `xml:"xmeml"`
	Version  string      `xml:"version,attr"`
	Sequence xmlSequence `xml:"sequence"`
}

// WriteExchange emits the timeline as an xmeml v4 sequence: one empty
// video track and one audio track carrying every clip at its frame
// position. With embedCaptions, allocated slots become sequence markers.
// The sequence UUID derives from the name so reruns stay byte-identical.
func WriteExchange(path string, tl *timeline.Timeline, name string, embedCaptions bool) error {
	rate := xmlRate{Timebase: tl.Rate.Timebase, NTSC: xmlBool(tl.Rate.NTSC)}
	displayFormat := "NDF"
	if tl.Rate.DropFrame {
		displayFormat = "DF"
	}

	items := make([]xmlClipItem, 0, len(tl.Entries))
	for i, entry := range tl.Entries {
		duration := entry.DurationFrames()
		abs, err := filepath.Abs(entry.Segment.Path)
		if err != nil {
			return fmt.Errorf("resolve clip path: %w", err)
		}
		pathURL := (&url.URL{Scheme: "file", Host: "localhost", Path: filepath.ToSlash(abs)}).String()

		items = append(items, xmlClipItem{
			ID:           fmt.Sprintf("clipitem-%d", i+1),
			Name:         entry.Segment.Filename(),
			Enabled:      "TRUE",
			Duration:     duration,
			Rate:         rate,
			Start:        entry.StartFrame,
			End:          entry.EndFrame,
			In:           0,
			Out:          duration,
			PProTicksIn:  tl.Rate.TicksFromFrames(entry.StartFrame),
			PProTicksOut: tl.Rate.TicksFromFrames(entry.EndFrame),
			File: xmlFile{
				ID:       fmt.Sprintf("file-%d", i+1),
				Name:     entry.Segment.Filename(),
				PathURL:  pathURL,
				Rate:     rate,
				Duration: duration,
				Media: xmlFileMedia{Audio: xmlFileAudio{
					SampleCharacteristics: xmlSampleCharacteristics{
						Depth:      audioDepthBits,
						SampleRate: entry.Segment.SampleRate,
					},
					ChannelCount: 1,
				}},
			},
			SourceTrack: xmlSourceTrack{MediaType: "audio", TrackIndex: 1, ClipIndex: i + 1},
		})
	}

	var markers []xmlMarker
	if embedCaptions {
		for _, entry := range tl.Entries {
			for _, slot := range entry.Slots {
				markers = append(markers, xmlMarker{
					Comment: slot.Text,
					Name:    fmt.Sprintf("caption-%d", slot.Source),
					In:      tl.Rate.FramesFromMillis(slot.StartMS),
					Out:     tl.Rate.FramesFromMillis(slot.EndMS),
				})
			}
		}
	}

	doc := xmlDocument{
		Version: exchangeVersion,
		Sequence: xmlSequence{
			ID:       "sequence-1",
			UUID:     uuid.NewSHA1(uuid.NameSpaceURL, []byte("cuealign:"+name)).String(),
			Name:     name,
			Duration: tl.TotalFrames,
			Rate:     rate,
			Media: xmlMedia{
				Video: xmlVideo{Format: xmlVideoFormat{
					SampleCharacteristics: xmlVideoSampleCharacteristics{Rate: rate, Width: 1920, Height: 1080},
				}},
				Audio: xmlAudio{Tracks: []xmlAudioTrack{{ClipItems: items}}},
			},
			Timecode: xmlTimecode{
				Rate:          rate,
				String:        tl.Rate.Timecode(0),
				Frame:         0,
				DisplayFormat: displayFormat,
			},
			Markers: markers,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<!DOCTYPE xmeml>\n")
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode exchange document: %w", err)
	}
	buf.WriteByte('\n')
	return fileutil.WriteAtomic(path, buf.Bytes(), 0o644)
}

func xmlBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
