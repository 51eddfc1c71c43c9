package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ehr/patientmsg/internal/domain/patientmsg"
	"github.com/ehr/patientmsg/internal/platform/hl7v2"
)

// charsets maps --charset values to decoders. UTF-8 input is read as is.
var charsets = map[string]encoding.Encoding{
	"utf-8":        nil,
	"utf8":         nil,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
}

func parseCmd() *cobra.Command {
	var charset string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse messages from a file or stdin and print one JSON record per line",
		Long: "Parse reads blank-line separated messages, prints each parsed record as JSON\n" +
			"and logs messages that fail validation. It exits non-zero if any message failed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			logger := zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
			return runParse(in, cmd.OutOrStdout(), charset, logger)
		},
	}
	cmd.Flags().StringVar(&charset, "charset", "utf-8", "Input encoding: utf-8, latin1 or windows-1252")
	return cmd
}

// decodeReader wraps r so it yields UTF-8.
func decodeReader(r io.Reader, charset string) (io.Reader, error) {
	enc, ok := charsets[strings.ToLower(charset)]
	if !ok {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

func runParse(r io.Reader, w io.Writer, charset string, logger zerolog.Logger) error {
	decoded, err := decodeReader(r, charset)
	if err != nil {
		return err
	}
	raw, err := io.ReadAll(decoded)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	parser := patientmsg.NewParser(logger)
	enc := json.NewEncoder(w)

	messages := hl7v2.SplitMessages(string(raw))
	failed := 0
	for i, msg := range messages {
		rec, err := parser.Parse(msg)
		if err != nil {
			failed++
			logger.Error().Err(err).Int("index", i).Msg("message rejected")
			continue
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d message(s) failed", failed, len(messages))
	}
	return nil
}
