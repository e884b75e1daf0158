package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"shot-history-api/internal/shot"
	"shot-history-api/internal/webhook"

	"github.com/spf13/cobra"
)

// errInvalidURL makes validate-url exit non-zero without printing usage.
var errInvalidURL = errors.New("invalid webhook URL")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shotctl",
		Short:         "Inspect shot files and send them to a webhook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSendCmd(), newValidateURLCmd(), newPayloadCmd())
	return root
}

type sendFlags struct {
	file        string
	notesFile   string
	url         string
	token       string
	settingsURL string
	adminKey    string
	clientID    string
	timeout     time.Duration
}

func newSendCmd() *cobra.Command {
	var f sendFlags
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Post a shot JSON file to the webhook once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.file, "file", "", "shot JSON file (- for stdin)")
	cmd.Flags().StringVar(&f.notesFile, "notes", "", "notes JSON file overriding the shot's notes")
	cmd.Flags().StringVar(&f.url, "url", "", "webhook URL override")
	cmd.Flags().StringVar(&f.token, "token", "", "webhook bearer token override")
	cmd.Flags().StringVar(&f.settingsURL, "settings-url", os.Getenv("SHOT_WEBHOOK_SETTINGS_URL"), "settings endpoint to read the webhook from")
	cmd.Flags().StringVar(&f.adminKey, "admin-key", os.Getenv("SHOT_ADMIN_KEY"), "admin key for the settings endpoint")
	cmd.Flags().StringVar(&f.clientID, "client-id", webhook.DefaultClientID, "User-Agent sent to the webhook")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "request timeout, 0 for none")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runSend(cmd *cobra.Command, f sendFlags) error {
	sh, err := readShot(cmd.InOrStdin(), f.file)
	if err != nil {
		return err
	}
	notes, err := readNotes(f.notesFile)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: f.timeout}
	var source webhook.SettingsSource
	if f.settingsURL != "" {
		source = &webhook.HTTPSettingsSource{URL: f.settingsURL, AdminKey: f.adminKey, Client: client}
	}
	sender := webhook.NewSender(client, source, f.clientID)

	res, err := sender.Send(cmd.Context(), &sh, webhook.SendOptions{
		Notes:     notes,
		URL:       f.url,
		AuthToken: f.token,
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "send failed (%s): %v\n", webhook.KindOf(err), err)
		return err
	}
	return printJSON(cmd.OutOrStdout(), res.Data)
}

func newValidateURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-url URL",
		Short: "Check that a URL is usable as a webhook destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !webhook.ValidateURL(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				return errInvalidURL
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}

func newPayloadCmd() *cobra.Command {
	var file, notesFile string
	cmd := &cobra.Command{
		Use:   "payload",
		Short: "Print the JSON body that would be posted for a shot",
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := readShot(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			notes, err := readNotes(notesFile)
			if err != nil {
				return err
			}
			p, err := webhook.BuildPayload(&sh, notes)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "shot JSON file (- for stdin)")
	cmd.Flags().StringVar(&notesFile, "notes", "", "notes JSON file overriding the shot's notes")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readShot(stdin io.Reader, path string) (shot.Shot, error) {
	var sh shot.Shot
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return sh, fmt.Errorf("open shot file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&sh); err != nil {
		return sh, fmt.Errorf("decode shot: %w", err)
	}
	return sh, nil
}

func readNotes(path string) (*shot.Notes, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notes file: %w", err)
	}
	var n shot.Notes
	if err := json.Unmarshal(b, &n); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return &n, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
