package api

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// Setting is a single key-value entry of the backend's settings store.
// This client only reads and updates by key; settings are never created
// or deleted from here.
type Setting struct {
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Type        string     `json:"type,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type SettingInput struct {
	Value       string `json:"value" validate:"required"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

func settingPath(key string) (string, error) {
	if key == "" {
		return "", errors.New("setting key is required")
	}
	return "/admin/settings/key/" + url.PathEscape(key), nil
}

func (c *Client) GetSettingByKey(ctx context.Context, key string) (*Setting, error) {
	path, err := settingPath(key)
	if err != nil {
		return nil, err
	}
	var setting Setting
	if err := c.get(ctx, path, nil, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (c *Client) UpdateSettingByKey(ctx context.Context, key string, input SettingInput) (*Setting, error) {
	path, err := settingPath(key)
	if err != nil {
		return nil, err
	}
	if input.Type == "" {
		input.Type = "string"
	}
	var setting Setting
	if err := c.put(ctx, path, input, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}
