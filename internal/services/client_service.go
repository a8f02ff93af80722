package services

import (
	"errors"
	"time"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"gorm.io/gorm"
)

type ClientService interface {
	CreateClient(client *models.Client) error
	GetClientsByUserID(userID uint) ([]models.Client, error)
	GetClientByID(id string) (*models.Client, error)
	DeleteClient(clientID string, userID uint) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(client *models.Client) error {
	if client.SubscriptionPeriodEnd.IsZero() {
		client.SubscriptionPeriodEnd = time.Now().UTC().AddDate(0, 1, 0)
	}
	return s.db.Create(client).Error
}

func (s *clientService) GetClientsByUserID(userID uint) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Where("user_id = ?", userID).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *clientService) GetClientByID(id string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *clientService) DeleteClient(clientID string, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", clientID, userID).Delete(&models.Client{})
	if result.RowsAffected == 0 {
		return errors.New("client_not_found")
	}
	return result.Error
}
