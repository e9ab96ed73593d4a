package discord

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// User is the subset of a Discord user the bot reads.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name,omitempty"`
	Bot        bool   `json:"bot,omitempty"`
}

// Channel is the subset of a Discord channel the bot reads.
type Channel struct {
	ID   string `json:"id"`
	Type int    `json:"type"`
}

// Message is the subset of a Discord message the bot reads.
type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

// CreateDM opens (or returns the existing) direct message channel with a
// user.
func (c *Client) CreateDM(ctx context.Context, userID string) (Channel, error) {
	var ch Channel
	err := c.do(ctx, http.MethodPost, "/users/@me/channels", map[string]string{"recipient_id": userID}, &ch)
	return ch, err
}

// CreateMessage posts a text message to a channel.
func (c *Client) CreateMessage(ctx context.Context, channelID, content string) (Message, error) {
	var m Message
	err := c.do(ctx, http.MethodPost, "/channels/"+url.PathEscape(channelID)+"/messages", map[string]string{"content": content}, &m)
	return m, err
}

// SendDirectMessage opens a DM channel with the user and posts content.
func (c *Client) SendDirectMessage(ctx context.Context, userID, content string) error {
	ch, err := c.CreateDM(ctx, userID)
	if err != nil {
		return fmt.Errorf("opening DM with %s: %w", userID, err)
	}
	if _, err := c.CreateMessage(ctx, ch.ID, content); err != nil {
		return fmt.Errorf("sending DM to %s: %w", userID, err)
	}
	return nil
}
