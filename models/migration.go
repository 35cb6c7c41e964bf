package models

import (
	"github.com/mmdatafocus/debt_gateway/config"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func MigrateTable(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Client{},
		&Debt{},
		&Payment{},
	)
	if err != nil {
		config.GetLogger().WithFields(logrus.Fields{
			"field": "MigrateTable",
		}).Error(err.Error())
		return err
	}
	return nil
}
