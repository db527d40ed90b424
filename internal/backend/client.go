package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
	"votekiosk/internal/models"
	"votekiosk/internal/providers"
	"votekiosk/internal/structures"
	"votekiosk/internal/voting/interfaces"

	json "github.com/goccy/go-json"
)

const (
	MsgVerificationFailed = "Face verification failed"
	MsgVerified           = "Face verified"
	MsgVoteFailed         = "Voting failed. Please try again."
	MsgVoteRecorded       = "Your vote has been recorded. Thank you!"

	maxResponseBytes = 1 << 20
	imageFileName    = "captured_image.jpg"
)

// Client talks to the verification and voting backend.
// It keeps no per-voter state; callers decide when a request may be sent.
type Client struct {
	base       string
	verifyPath string
	votePath   string
	http       *http.Client
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

type votePayload struct {
	UniqueID string `json:"unique_id"`
	ECID     string `json:"ec_id"`
	PartyID  int    `json:"party_id"`
}

func NewClient(conf *structures.Config, httpClient *http.Client, logger providers.Logger, metrics providers.MetricsProviderInterface) *Client {
	return &Client{
		base:       strings.TrimRight(conf.Backend.BaseURL, "/"),
		verifyPath: conf.Backend.VerifyPath,
		votePath:   conf.Backend.VotePath,
		http:       httpClient,
		logger:     logger,
		metrics:    metrics,
	}
}

func NewVerificationClient(c *Client) interfaces.VerificationClientInterface { return c }

func NewVoteSubmitter(c *Client) interfaces.VoteSubmitterInterface { return c }

func (c *Client) Verify(ctx context.Context, uniqueID, ecID string, image []byte) models.Outcome {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	_ = w.WriteField("unique_id", uniqueID)
	_ = w.WriteField("ec_id", ecID)
	part, err := w.CreateFormFile("image", imageFileName)
	if err == nil {
		_, err = part.Write(image)
	}
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		return models.TransportError(MsgVerificationFailed, fmt.Errorf("%w: %s", models.ErrTransport, err))
	}

	out := c.post(ctx, "verify", c.verifyPath, w.FormDataContentType(), buf, MsgVerificationFailed, models.ErrTransport)
	if out.IsSuccess() && out.Message == "" {
		out.Message = MsgVerified
	}
	if out.Kind == models.OutcomeRejected && out.Err == nil {
		out.Err = models.ErrVerificationRejected
	}
	return out
}

func (c *Client) Submit(ctx context.Context, uniqueID, ecID string, partyID int) models.Outcome {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(votePayload{UniqueID: uniqueID, ECID: ecID, PartyID: partyID}); err != nil {
		return models.TransportError(MsgVoteFailed, fmt.Errorf("%w: %s", models.ErrVoteTransport, err))
	}

	out := c.post(ctx, "vote", c.votePath, "application/json", buf, MsgVoteFailed, models.ErrVoteTransport)
	if out.IsSuccess() {
		out.Message = MsgVoteRecorded
	}
	if out.Kind == models.OutcomeRejected && out.Err == nil {
		out.Err = models.ErrVoteRejected
	}
	return out
}

// post sends one request and translates the answer into an Outcome.
func (c *Client) post(ctx context.Context, endpoint, path, contentType string, body io.Reader, generic string, transportErr error) models.Outcome {
	start := time.Now()
	defer func() {
		c.metrics.ObserveBackendDuration(endpoint, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		return models.TransportError(generic, fmt.Errorf("%w: %s", transportErr, err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Errorf(providers.TypeBackend, "%s post %s failed: %s", endpoint, path, err)
		return models.TransportError(generic, fmt.Errorf("%w: %s", transportErr, err))
	}
	defer resp.Body.Close()

	var answer models.BackendResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&answer)

	if resp.StatusCode/100 != 2 {
		if decodeErr == nil && answer.Message != "" {
			c.logger.Warnf(providers.TypeBackend, "%s post %s: %s: %s", endpoint, path, resp.Status, answer.Message)
			return models.Rejected(answer.Message)
		}
		c.logger.Errorf(providers.TypeBackend, "%s post %s: %s", endpoint, path, resp.Status)
		return models.TransportError(generic, fmt.Errorf("%w: %s", transportErr, resp.Status))
	}
	if decodeErr != nil {
		c.logger.Errorf(providers.TypeBackend, "%s post %s: undecodable response: %s", endpoint, path, decodeErr)
		return models.TransportError(generic, fmt.Errorf("%w: %s", transportErr, decodeErr))
	}

	if answer.Status != models.StatusSuccess {
		c.logger.Infof(providers.TypeBackend, "%s refused: status=%s message=%s", endpoint, answer.Status, answer.Message)
		msg := answer.Message
		if msg == "" {
			msg = generic
		}
		return models.Rejected(msg)
	}
	c.logger.Infof(providers.TypeBackend, "%s accepted: %s", endpoint, answer.Message)
	return models.Success(answer.Message)
}
