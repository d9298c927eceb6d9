package line

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the LINE Messaging API. Profile fetches run on a shorter
// timeout than message sends; nothing is retried automatically — a caller
// needing guaranteed delivery applies its own policy.
type Client struct {
	accessToken     string
	profileClient   *http.Client
	sendClient      *http.Client
	broadcastClient *http.Client
	BaseURL         string
}

func NewClient(accessToken string) *Client {
	return &Client{
		accessToken:     accessToken,
		profileClient:   &http.Client{Timeout: 5 * time.Second},
		sendClient:      &http.Client{Timeout: 10 * time.Second},
		broadcastClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:         "https://api.line.me/v2/bot",
	}
}

func (c *Client) GetProfile(userID string) (*Profile, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+"/profile/"+userID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.profileClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("line profile: %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &profile, nil
}

// ReplyText answers an inbound event through its reply token. Valid only
// within the lifetime of that event.
func (c *Client) ReplyText(replyToken, text string) error {
	return c.post(c.sendClient, "/message/reply", replyRequest{
		ReplyToken: replyToken,
		Messages:   textMessages(text),
	})
}

// PushText sends a message addressed by user id, usable at any time.
func (c *Client) PushText(userID, text string) error {
	return c.post(c.sendClient, "/message/push", pushRequest{
		To:       userID,
		Messages: textMessages(text),
	})
}

// BroadcastText sends a message to every follower of the channel.
func (c *Client) BroadcastText(text string) error {
	return c.post(c.broadcastClient, "/message/broadcast", broadcastRequest{
		Messages: textMessages(text),
	})
}

func (c *Client) post(client *http.Client, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("line %s: %s: %s", path, resp.Status, strings.TrimSpace(string(data)))
	}
	return nil
}
