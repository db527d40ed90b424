package commands

import (
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"votekiosk/internal/di"
	"votekiosk/internal/models"
)

// sessionSummary is the resident record without the image payload.
type sessionSummary struct {
	SessionID          string                    `json:"sessionId"`
	UniqueID           string                    `json:"uniqueId"`
	ECID               string                    `json:"ecId"`
	VerificationStatus models.VerificationStatus `json:"verificationStatus"`
	VoteStatus         models.VoteStatus         `json:"voteStatus"`
	CreatedAt          time.Time                 `json:"createdAt"`
	ImageBytes         int                       `json:"imageBytes"`
	Resumable          bool                      `json:"resumable"`
}

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset the voter session stored on this device",
	}
	cmd.AddCommand(sessionShowCmd(), sessionClearCmd())
	return cmd
}

func sessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resident voter session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := di.InitSessionStore(&flags)
			if err != nil {
				return err
			}
			session, ok := store.Read()
			return printSession(cmd.OutOrStdout(), session, ok)
		},
	}
}

func sessionClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the resident voter session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := di.InitSessionStore(&flags)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Voter session cleared")
			return nil
		},
	}
}

func printSession(w io.Writer, session *models.VoterSession, ok bool) error {
	if !ok {
		_, err := fmt.Fprintln(w, "No voter session on this device")
		return err
	}
	out, err := json.MarshalIndent(sessionSummary{
		SessionID:          session.SessionID,
		UniqueID:           session.UniqueID,
		ECID:               session.ECID,
		VerificationStatus: session.VerificationStatus,
		VoteStatus:         session.VoteStatus,
		CreatedAt:          session.CreatedAt,
		ImageBytes:         len(session.CapturedImage),
		Resumable:          session.Resumable(),
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
