package repository

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
	"github.com/rs/zerolog"
	"github.com/stemsi/coursequiz/internal/auth"
	"github.com/stemsi/coursequiz/internal/response"
)

// Client performs authenticated calls against the quiz service and turns
// every outcome into either a decoded envelope or a *response.Error.
// It never talks to the user; presentation lives in the service package.
type Client struct {
	http  *req.Client
	creds auth.CredentialProvider
	log   zerolog.Logger
}

// NewClient creates a Client rooted at baseURL (which includes the /api/v1 prefix).
func NewClient(baseURL string, timeout time.Duration, creds auth.CredentialProvider, log zerolog.Logger) *Client {
	httpClient := req.C().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal).
		SetCommonHeader("Accept", "application/json")

	return &Client{
		http:  httpClient,
		creds: creds,
		log:   log.With().Str("component", "quiz_client").Logger(),
	}
}

// call issues one request. The envelope is returned whenever a body could be
// decoded, even alongside an error, so callers can refine the classification.
func (c *Client) call(ctx context.Context, op, method, path string, pathParams map[string]string, body interface{}) (*response.Envelope, error) {
	token, err := c.authorize(ctx)
	if err != nil {
		return nil, err
	}

	reqID := response.NewRequestID()
	r := c.http.R().
		SetContext(ctx).
		SetBearerAuthToken(token).
		SetHeader(response.HeaderRequestID, reqID).
		SetPathParams(pathParams)
	if body != nil {
		r.SetBodyJsonMarshal(body)
	}

	resp, err := r.Send(method, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, c.fail(op, reqID, response.NewError(response.ErrCanceled, 0, "", ctx.Err()))
		}
		return nil, c.fail(op, reqID, response.NewError(response.ErrTransport, 0, "", err))
	}

	data, err := resp.ToBytes()
	if err != nil {
		return nil, c.fail(op, reqID, response.NewError(response.ErrTransport, resp.StatusCode, "", err))
	}

	status := resp.StatusCode
	env, decodeErr := response.DecodeEnvelope(data)

	var msg string
	if env != nil {
		msg = env.Message
	}

	switch {
	case status == http.StatusUnauthorized:
		return env, c.fail(op, reqID, response.NewError(response.ErrUnauthorized, status, msg, nil))
	case status == http.StatusNotFound:
		return env, c.fail(op, reqID, response.NewError(response.ErrNotFound, status, msg, nil))
	case status >= http.StatusInternalServerError:
		return env, c.fail(op, reqID, response.NewError(response.ErrTransport, status, "", nil))
	case decodeErr != nil:
		code := response.ErrTransport
		if status >= 200 && status < 300 {
			code = response.ErrInvalidPayload
		}
		return nil, c.fail(op, reqID, response.NewError(code, status, "", decodeErr))
	case !env.Success:
		return env, c.fail(op, reqID, response.NewError(response.ErrService, status, msg, nil))
	case status < 200 || status >= 300:
		return env, c.fail(op, reqID, response.NewError(response.ErrTransport, status, "", nil))
	}

	c.log.Debug().Str("op", op).Str("request_id", reqID).Int("status", status).Msg("Call succeeded")
	return env, nil
}

// authorize resolves the bearer credential. Nothing, cached data included,
// is served without one.
func (c *Client) authorize(ctx context.Context) (string, error) {
	token, err := c.creds.Token(ctx)
	if err != nil {
		code := response.ErrTokenRequired
		if errors.Is(err, auth.ErrCredentialExpired) {
			code = response.ErrTokenExpired
		}
		return "", response.NewError(code, 0, "", err)
	}
	return token, nil
}

func (c *Client) fail(op, reqID string, e *response.Error) *response.Error {
	e.RequestID = reqID
	c.log.Warn().
		Str("op", op).
		Str("request_id", reqID).
		Str("code", string(e.Code)).
		Int("status", e.Status).
		AnErr("cause", e.Err).
		Msg(e.Message)
	return e
}

func requireCourseID(courseID string) error {
	if courseID == "" {
		return response.NewError(response.ErrValidation, 0, "course id is required", nil)
	}
	return nil
}
