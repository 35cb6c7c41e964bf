package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/debt_gateway/config"
	"github.com/mmdatafocus/debt_gateway/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Client struct {
	DocumentIdentifier string    `gorm:"column:document_identifier;primaryKey;size:14;not null" json:"document_identifier"`
	Name               string    `gorm:"column:name;size:255;not null" json:"name"`
	Company            *string   `gorm:"column:company;size:255" json:"company"`
	ProductType        *string   `gorm:"column:product_type;size:255" json:"product_type"`
	CreatedAt          time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
	UpdatedAt          time.Time `gorm:"column:date_updated;autoUpdateTime" json:"date_updated"`
}

func (Client) TableName() string {
	return "client"
}

type NewClient struct {
	DocumentIdentifier string  `json:"document_identifier" validate:"required,max=14"`
	Name               string  `json:"name" validate:"required,max=255"`
	Company            *string `json:"company" validate:"omitempty,max=255"`
	ProductType        *string `json:"product_type" validate:"omitempty,max=255"`
}

// ObjectCache is a JSON object cache; config.RedisCache implements it.
type ObjectCache interface {
	GetObject(ctx context.Context, key string, dest any) (bool, error)
	SetObject(ctx context.Context, key string, obj any, exp time.Duration) error
	RemoveKey(ctx context.Context, keys ...string) error
}

type ClientStore struct {
	db       *gorm.DB
	cache    ObjectCache
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewClientStore(db *gorm.DB) *ClientStore {
	return &ClientStore{db: db, logger: config.GetLogger()}
}

// WithCache enables read-through caching of clients. A zero ttl disables it.
func (s *ClientStore) WithCache(cache ObjectCache, ttl time.Duration) *ClientStore {
	if cache == nil || ttl <= 0 {
		return s
	}
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

func clientCacheKey(documentIdentifier string) string {
	return "Client:" + documentIdentifier
}

// GetClientByDocumentIdentifier returns (nil, nil) when no client matches.
func (s *ClientStore) GetClientByDocumentIdentifier(ctx context.Context, documentIdentifier string) (*Client, error) {
	if s.cache != nil {
		var cached Client
		exists, err := s.cache.GetObject(ctx, clientCacheKey(documentIdentifier), &cached)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"field":               "GetClientByDocumentIdentifier",
				"document_identifier": documentIdentifier,
			}).Warn("client cache read failed: " + err.Error())
		} else if exists {
			return &cached, nil
		}
	}

	var client Client
	err := s.db.WithContext(ctx).Where("document_identifier = ?", documentIdentifier).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetObject(ctx, clientCacheKey(documentIdentifier), &client, s.cacheTTL); err != nil {
			s.logger.WithFields(logrus.Fields{
				"field":               "GetClientByDocumentIdentifier",
				"document_identifier": documentIdentifier,
			}).Warn("client cache write failed: " + err.Error())
		}
	}
	return &client, nil
}

func (s *ClientStore) CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	client := Client{
		DocumentIdentifier: input.DocumentIdentifier,
		Name:               input.Name,
		Company:            input.Company,
		ProductType:        input.ProductType,
	}
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// UpdateClient overwrites name, company and product type.
func (s *ClientStore) UpdateClient(ctx context.Context, documentIdentifier string, input *NewClient) (*Client, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	var client Client
	if err := s.db.WithContext(ctx).Where("document_identifier = ?", documentIdentifier).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	err := s.db.WithContext(ctx).Model(&client).Updates(map[string]interface{}{
		"name":         input.Name,
		"company":      input.Company,
		"product_type": input.ProductType,
	}).Error
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, documentIdentifier)
	return &client, nil
}

// DeleteClient reports false when the client did not exist.
func (s *ClientStore) DeleteClient(ctx context.Context, documentIdentifier string) (bool, error) {
	result := s.db.WithContext(ctx).Where("document_identifier = ?", documentIdentifier).Delete(&Client{})
	if result.Error != nil {
		return false, result.Error
	}
	s.invalidate(ctx, documentIdentifier)
	return result.RowsAffected > 0, nil
}

func (s *ClientStore) invalidate(ctx context.Context, documentIdentifier string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.RemoveKey(ctx, clientCacheKey(documentIdentifier)); err != nil {
		s.logger.WithFields(logrus.Fields{
			"field":               "invalidate",
			"document_identifier": documentIdentifier,
		}).Warn("client cache invalidation failed: " + err.Error())
	}
}
