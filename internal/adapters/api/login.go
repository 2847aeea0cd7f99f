package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Johnmc130/SerenVoice/internal/domain"
)

type loginRequestSchema struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

type loginResponseSchema struct {
	Token   string `json:"token"`
	Usuario struct {
		ID     int64  `json:"id"`
		Nombre string `json:"nombre"`
	} `json:"usuario"`
}

// Credentials is a successful login: the bearer token plus the identity it
// belongs to.
type Credentials struct {
	Token  string
	UserID domain.UserID
	Name   string
}

func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	if email == "" {
		return Credentials{}, errors.New("email is required")
	}
	if password == "" {
		return Credentials{}, errors.New("password is required")
	}

	body, err := json.Marshal(loginRequestSchema{Correo: email, Contrasena: password})
	if err != nil {
		return Credentials{}, fmt.Errorf("encode login request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/iniciar-sesion", bytes.NewReader(body), "application/json")
	if err != nil {
		return Credentials{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		return Credentials{}, errors.New("invalid credentials")
	}
	if err := checkStatus(resp, "login"); err != nil {
		return Credentials{}, err
	}

	var payload loginResponseSchema
	if err := decode(resp, &payload); err != nil {
		return Credentials{}, fmt.Errorf("decode login response: %w", err)
	}
	if payload.Token == "" || payload.Usuario.ID == 0 {
		return Credentials{}, errors.New("login response missing token or user")
	}

	return Credentials{
		Token:  payload.Token,
		UserID: domain.UserID(strconv.FormatInt(payload.Usuario.ID, 10)),
		Name:   payload.Usuario.Nombre,
	}, nil
}
