package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/andaloo23/music-copilot/abc"
	"github.com/andaloo23/music-copilot/midi"
	"github.com/andaloo23/music-copilot/model"
	"github.com/andaloo23/music-copilot/note"
	"github.com/spf13/cobra"
)

var midiOut string

func init() {
	convertCmd.Flags().StringVarP(&midiOut, "midi", "m", "", "Also write a midi file to this path")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Converts a saved request to ABC",
	Long: `Converts a request body ({"rectangles": [...]}) or a bare array of
rectangles to ABC notation. Reads stdin when no file is given or file is "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		data, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		notation, err := convert(data, midiOut)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), notation)
		return nil
	},
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// parseRequest accepts a request body or just its rectangles.
func parseRequest(data []byte) (model.ConvertRequestBody, error) {
	var input model.ConvertRequestBody
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err := json.Unmarshal(trimmed, &input.Rectangles)
		if err != nil {
			return input, fmt.Errorf("could not unmarshal rectangles: %w", err)
		}
		return input, nil
	}

	if err := json.Unmarshal(trimmed, &input); err != nil {
		return input, fmt.Errorf("could not unmarshal request body: %w", err)
	}
	return input, nil
}

// convert returns the ABC for a request and writes midi to midiPath if set.
func convert(data []byte, midiPath string) (string, error) {
	input, err := parseRequest(data)
	if err != nil {
		return "", err
	}

	notes, err := note.FromRectangles(input.Rectangles)
	if err != nil {
		return "", err
	}
	notation := abc.Render(notes)

	if midiPath != "" {
		if err := writeMidiFile(midiPath, notes); err != nil {
			return "", err
		}
	}
	return notation, nil
}

// writeMidiFile writes notes to path and reads the file back. Nothing is
// left at path on failure.
func writeMidiFile(path string, notes []model.ProcessedNote) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create midi file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := midi.Write(f, notes); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close midi file: %w", err)
	}

	if _, err := midi.ReadMidiFile(path); err != nil {
		return fmt.Errorf("midi file did not read back: %w", err)
	}
	return nil
}
