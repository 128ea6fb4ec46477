// Package service validates user input and calls into the store. It is what
// a front end talks to for everyday record keeping.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/storage"
)

// ClientService manages clients.
type ClientService struct {
	store storage.ClientStore
}

// NewClientService creates a new ClientService with the given storage backend.
func NewClientService(store storage.ClientStore) *ClientService {
	return &ClientService{store: store}
}

func validateClient(c *models.Client) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	if c.Name == "" {
		return invalid("name", "required")
	}
	return nil
}

// Create adds a client and returns it with its ID set.
func (s *ClientService) Create(ctx context.Context, name, phone string) (*models.Client, error) {
	client := &models.Client{Name: name, Phone: phone}
	if err := validateClient(client); err != nil {
		return nil, err
	}

	if err := s.store.CreateClient(ctx, client); err != nil {
		slog.Error("CreateClient failed", "error", err)
		return nil, err
	}

	slog.Info("Client created", "client_id", client.ID)
	return client, nil
}

// List returns clients ordered by name. A non-empty search narrows the list
// to names or phones containing it.
func (s *ClientService) List(ctx context.Context, search string) ([]*models.Client, error) {
	return s.store.ListClients(ctx, storage.ClientFilter{Search: strings.TrimSpace(search)})
}

// Get returns a client, or nil if it does not exist.
func (s *ClientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	return s.store.GetClient(ctx, id)
}

// Update replaces a client's name and phone.
func (s *ClientService) Update(ctx context.Context, client *models.Client) error {
	if err := validateClient(client); err != nil {
		return err
	}

	if err := s.store.UpdateClient(ctx, client); err != nil {
		slog.Error("UpdateClient failed", "client_id", client.ID, "error", err)
		return err
	}

	slog.Info("Client updated", "client_id", client.ID)
	return nil
}

// Delete removes a client together with its history.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		slog.Error("DeleteClient failed", "client_id", id, "error", err)
		return err
	}

	slog.Info("Client deleted", "client_id", id)
	return nil
}
