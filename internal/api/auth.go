package api

import (
	"context"
	"fmt"

	"github.com/apexmarkets/fx-terminal/internal/model"
)

const (
	_loginURL          = "/auth/login"
	_signupURL         = "/auth/signup"
	_updateProfileURL  = "/auth/update-profile"
	_changePasswordURL = "/auth/change-password"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}

type UpdateProfileRequest struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

type ChangePasswordRequest struct {
	UserID          string `json:"userId"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *Client) Login(ctx context.Context, r LoginRequest) (model.User, string, error) {
	return c.auth(ctx, _loginURL, r)
}

func (c *Client) Signup(ctx context.Context, r SignupRequest) (model.User, string, error) {
	return c.auth(ctx, _signupURL, r)
}

func (c *Client) auth(ctx context.Context, url string, body any) (model.User, string, error) {
	req := c.c.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&model.AuthResponse{}).
		SetError(&model.ErrorResponse{})

	resp, err := req.Post(url)
	if err != nil {
		return model.User{}, "", fmt.Errorf("%w: can't send auth request", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		response := resp.Error().(*model.ErrorResponse)
		return model.User{}, "", fmt.Errorf("%s: auth request error", response.Message)
	}
	if resp.IsSuccess() {
		result := resp.Result().(*model.AuthResponse)
		if result.Token == "" {
			return model.User{}, "", fmt.Errorf("%s: auth response without token", result.Message)
		}
		return result.User, result.Token, nil
	}

	return model.User{}, "", fmt.Errorf("auth unexpected request error: %s", resp.Status())
}

func (c *Client) UpdateProfile(ctx context.Context, r UpdateProfileRequest) error {
	return c.put(ctx, _updateProfileURL, r)
}

func (c *Client) ChangePassword(ctx context.Context, r ChangePasswordRequest) error {
	return c.put(ctx, _changePasswordURL, r)
}

func (c *Client) put(ctx context.Context, url string, body any) error {
	req := c.c.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&model.StatusResponse{}).
		SetError(&model.ErrorResponse{})

	resp, err := req.Put(url)
	if err != nil {
		return fmt.Errorf("%w: can't send request", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		response := resp.Error().(*model.ErrorResponse)
		return fmt.Errorf("%s: request error", response.Message)
	}
	if resp.IsSuccess() {
		result := resp.Result().(*model.StatusResponse)
		if !result.Success {
			return fmt.Errorf("%s: request rejected", result.Message)
		}
		return nil
	}

	return fmt.Errorf("unexpected request error: %s", resp.Status())
}
