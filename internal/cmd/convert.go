package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clibridge/clibridge/internal/bridge"
	errwrap "github.com/clibridge/clibridge/internal/errors"
)

var convertYAML bool

// convertOutput mirrors bridge.CLIInput with serialization tags for the
// convert command.
type convertOutput struct {
	Prompt    string `json:"prompt" yaml:"prompt"`
	Model     string `json:"model" yaml:"model"`
	SessionID string `json:"session_id,omitempty" yaml:"session_id,omitempty"`
}

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a chat completion request to CLI input",
	Long: `Convert an OpenAI-style chat completion request into the flattened
prompt, model alias, and session ID that would be passed to the CLI tool.

Reads the JSON request from the given file, or from stdin when no file is
supplied. Useful for debugging prompt flattening without running the server.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var reader io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return errwrap.WrapInvalidInput(cmd.Context(), err, "cannot open request file")
			}
			defer func() { _ = f.Close() }()
			reader = f
		}

		var req bridge.ChatRequest
		if err := json.NewDecoder(reader).Decode(&req); err != nil {
			return errwrap.WrapInvalidInput(cmd.Context(), err, "request is not valid JSON")
		}

		input := bridge.Convert(req)
		out := convertOutput{
			Prompt:    input.Prompt,
			Model:     string(input.Model),
			SessionID: input.SessionID,
		}

		if convertYAML {
			encoded, err := yaml.Marshal(out)
			if err != nil {
				return errwrap.WrapInternal(cmd.Context(), err, "cannot encode output")
			}
			fmt.Print(string(encoded))
			return nil
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "cannot encode output")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&convertYAML, "yaml", false, "emit YAML instead of JSON")
}
