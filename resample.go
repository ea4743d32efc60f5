// SPDX-License-Identifier: EPL-2.0

package audpipe

import (
	"fmt"

	"github.com/ik5/audpipe/adapter"
	"github.com/ik5/audpipe/audio"
	"github.com/ik5/audpipe/format"
	"github.com/ik5/audpipe/negotiate"
	"github.com/ik5/audpipe/utils"
)

// ResampleToMono16 is a high-level convenience function that converts src
// to mono 16-bit PCM at targetRate and collects every sample.
//
// Channels are folded to mono by the default mappings. Sources with other
// channel maps, such as unknown layouts, are averaged with equal weights.
//
// Example:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	pcm16, rate, err := audpipe.ResampleToMono16(src, 8000, 4096)
//	if err != nil {
//	    return err
//	}
//	// pcm16 now contains mono 16-bit PCM at 8kHz
func ResampleToMono16(src audio.Source, targetRate int, blockFrames int) ([]int16, int, error) {
	if targetRate <= 0 {
		return nil, targetRate, fmt.Errorf("%w: target rate %d", audio.ErrInvalidFormat, targetRate)
	}

	f := format.Format{
		BitDepth:   16,
		SampleRate: float64(targetRate),
		ChannelMap: format.ChannelMapMono,
		SampleType: format.SignedInt,
		ByteOrder:  format.LittleEndian,
		Layout:     format.Interleaved,
	}
	c := &collector{
		format: f,
		pcm16:  make([]int16, 0, targetRate*2),
	}

	table, err := downmixTable(src)
	if err != nil {
		return nil, targetRate, err
	}
	if _, err := Transcode(src, c, f, blockFrames, negotiate.WithMappings(table)); err != nil {
		return nil, targetRate, err
	}
	return c.pcm16, targetRate, nil
}

// downmixTable extends the default mappings with an equal-weight mix to
// mono for each channel map src advertises that has none.
func downmixTable(src audio.Source) (*adapter.MappingTable, error) {
	t := adapter.DefaultMappings()
	for _, s := range src.OutputSetups() {
		cm, ok := s.ChannelMap.Value()
		if !ok || cm.Channels() < 2 {
			continue
		}
		if t.Supports(cm, format.ChannelMapMono) {
			continue
		}

		row := make([]float64, cm.Channels())
		for i := range row {
			row[i] = 1 / float64(len(row))
		}
		if err := t.Register(cm, format.ChannelMapMono, adapter.Mix(row)); err != nil {
			return nil, fmt.Errorf("downmix: %w", err)
		}
	}
	return t, nil
}

// collector is a Sink accumulating mono 16-bit samples.
type collector struct {
	audio.Link

	format format.Format
	pcm16  []int16
}

func (c *collector) Kind() audio.Kind            { return audio.KindDestination }
func (c *collector) InputSetups() []format.Setup { return []format.Setup{format.SetupOf(c.format)} }
func (c *collector) Close() error                { return nil }

func (c *collector) ConnectInput(up audio.Source, f format.Format) error {
	if !format.SetupOf(c.format).Accepts(f) {
		return fmt.Errorf("%w: collector needs %v, got %v", audio.ErrIncompatibleFormat, c.format, f)
	}
	return c.Bind(up, f)
}

func (c *collector) WriteBuffer(buf *audio.Buffer) error {
	if err := buf.CheckFormat(c.InputFormat()); err != nil {
		return err
	}

	codec := utils.NewCodec(c.format)
	for fr := range buf.Frames() {
		c.pcm16 = append(c.pcm16, int16(codec.Int(buf.Sample(fr, 0))))
	}
	return nil
}
