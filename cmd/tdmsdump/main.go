// Command tdmsdump is a diagnostic tool for inspecting a TDMS file: it
// prints the group/channel tree with properties and value counts, and can
// optionally export one data block's fixed-width channel values as
// lz4-compressed text for offline inspection. Blocks are numbered by
// data-bearing segment; segments without raw data have no block.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/pierrec/lz4/v4"
	"github.com/xyproto/env/v2"
	"go.uber.org/zap"

	"github.com/oakmeadow/gotdms"
)

func main() {
	var (
		exportSegment = flag.Int("export-segment", -1, "index of a data block whose values to export as lz4-compressed text, or -1 to skip")
		exportPath    = flag.String("export-path", "", "destination path for -export-segment (default: <input>.segN.lz4)")
		strict        = flag.Bool("strict", false, "fail on unrecognized segment versions instead of warning")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tdmsdump [flags] <file.tdms|file.tdms_index>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	logLevel := env.Str("TDMS_LOG_LEVEL", "info")
	logger, err := newCLILogger(logLevel)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	opts := []tdms.OptionFunc{tdms.WithLogger(logger)}
	if *strict {
		opts = append(opts, tdms.WithStrictVersion())
	}

	f, err := tdms.Open(path, opts...)
	if err != nil {
		log.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()

	dumpTree(f)

	if *exportSegment >= 0 {
		dest := *exportPath
		if dest == "" {
			dest = fmt.Sprintf("%s.seg%d.lz4", path, *exportSegment)
		}
		if err := exportSegmentBlock(f, *exportSegment, dest); err != nil {
			log.Fatalf("exporting segment %d: %v", *exportSegment, err)
		}
		fmt.Printf("exported data block %d values to %s\n", *exportSegment, dest)
	}
}

func dumpTree(f *tdms.File) {
	if f.IsIncomplete {
		fmt.Println("WARNING: file ends with an unterminated segment (crashed write)")
	}

	for name, prop := range f.Properties {
		fmt.Printf("file property %s = %v\n", name, prop.Value)
	}

	for _, group := range f.Groups {
		fmt.Printf("group %q\n", group.Name)
		for name, prop := range group.Properties {
			fmt.Printf("  property %s = %v\n", name, prop.Value)
		}
		for _, ch := range group.Channels {
			fmt.Printf("  channel %q: type=%s values=%d\n", ch.Name, ch.DataType, ch.NumValues())
		}
	}
}

// exportSegmentBlock dumps block index's channels as text, lz4-compressed,
// for diffing against a reference decoder elsewhere. String and DAQmx
// channels are skipped; this is a quick-look tool, not a full re-encoder.
func exportSegmentBlock(f *tdms.File, index int, dest string) error {
	block, ok := f.Block(index)
	if !ok {
		return fmt.Errorf("no such block: %d", index)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := lz4.NewWriter(out)
	defer zw.Close()

	for i, ch := range block.Channels {
		if ch.DataType == tdms.DataTypeString || ch.DataType.Size() == 0 {
			continue
		}
		values := make([]float64, ch.NumberOfValues)
		sink := tdms.NewTypedSink(values, ch.DataType.Size(), interpretAsFloat64(ch.DataType))
		n, err := block.ReadSingle(f.Source(), i, sink)
		if err != nil {
			return err
		}
		fmt.Fprintf(zw, "channel %d (%s): %v\n", i, ch.DataType, values[:n])
	}
	return nil
}

// interpretAsFloat64 returns a lossy catch-all interpreter for dt, used only
// to get a human-scannable number out of whatever fixed-width type a
// channel happens to hold. Types without a case below (128-bit floats,
// complex values, timestamps) yield NaN.
func interpretAsFloat64(dt tdms.DataType) func([]byte, binary.ByteOrder) float64 {
	switch dt {
	case tdms.DataTypeFloat32, tdms.DataTypeFloat32WithUnit:
		return func(b []byte, order binary.ByteOrder) float64 {
			return float64(math.Float32frombits(order.Uint32(b)))
		}
	case tdms.DataTypeFloat64, tdms.DataTypeFloat64WithUnit:
		return func(b []byte, order binary.ByteOrder) float64 {
			return math.Float64frombits(order.Uint64(b))
		}
	case tdms.DataTypeInt8:
		return func(b []byte, _ binary.ByteOrder) float64 { return float64(int8(b[0])) }
	case tdms.DataTypeUint8, tdms.DataTypeBool:
		return func(b []byte, _ binary.ByteOrder) float64 { return float64(b[0]) }
	case tdms.DataTypeInt16:
		return func(b []byte, order binary.ByteOrder) float64 { return float64(int16(order.Uint16(b))) }
	case tdms.DataTypeUint16:
		return func(b []byte, order binary.ByteOrder) float64 { return float64(order.Uint16(b)) }
	case tdms.DataTypeInt32:
		return func(b []byte, order binary.ByteOrder) float64 { return float64(int32(order.Uint32(b))) }
	case tdms.DataTypeUint32:
		return func(b []byte, order binary.ByteOrder) float64 { return float64(order.Uint32(b)) }
	case tdms.DataTypeInt64:
		return func(b []byte, order binary.ByteOrder) float64 { return float64(int64(order.Uint64(b))) }
	case tdms.DataTypeUint64:
		return func(b []byte, order binary.ByteOrder) float64 { return float64(order.Uint64(b)) }
	default:
		return func([]byte, binary.ByteOrder) float64 { return math.NaN() }
	}
}

func newCLILogger(level string) (*zap.SugaredLogger, error) {
	if level == "debug" {
		return tdms.NewDevelopmentLogger()
	}
	return tdms.NewProductionLogger()
}
