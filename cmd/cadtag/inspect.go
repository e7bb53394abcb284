package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Brandjuh/Cad-tag-generator/internal/apng"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "List the chunks of a PNG or APNG file and verify CRCs and sequence numbers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		chunks, err := apng.ReadChunks(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return describeChunks(cmd.OutOrStdout(), chunks)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// describeChunks печатает по строке на чанк и возвращает ошибку, если
// номера последовательности fcTL/fdAT идут с разрывом.
func describeChunks(out io.Writer, chunks []apng.Chunk) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTYPE\tLENGTH\tDETAIL")

	var (
		expect uint32
		seen   bool
		gapErr error
	)
	for i, c := range chunks {
		detail := ""
		switch c.Type {
		case apng.TypeIHDR:
			if len(c.Data) >= 8 {
				detail = fmt.Sprintf("%dx%d", binary.BigEndian.Uint32(c.Data), binary.BigEndian.Uint32(c.Data[4:]))
			}
		case apng.TypeACTL:
			if len(c.Data) >= 8 {
				detail = fmt.Sprintf("frames=%d plays=%d", binary.BigEndian.Uint32(c.Data), binary.BigEndian.Uint32(c.Data[4:]))
			}
		case apng.TypeFCTL:
			if len(c.Data) >= 24 {
				detail = fmt.Sprintf("delay=%d/%d", binary.BigEndian.Uint16(c.Data[20:]), binary.BigEndian.Uint16(c.Data[22:]))
			}
		}
		if sn, ok := c.SequenceNumber(); ok {
			detail = fmt.Sprintf("seq=%d %s", sn, detail)
			if seen && sn != expect && gapErr == nil {
				gapErr = fmt.Errorf("chunk %d: sequence number %d, want %d", i, sn, expect)
			}
			seen, expect = true, sn+1
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i, c.Type, len(c.Data), detail)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return gapErr
}
