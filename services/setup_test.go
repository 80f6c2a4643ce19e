package services

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/bakery-app/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return db
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type recordedEvent struct {
	Event string
	Data  interface{}
}

type fakeBroadcaster struct {
	events []recordedEvent
}

func (f *fakeBroadcaster) Broadcast(event string, data interface{}) {
	f.events = append(f.events, recordedEvent{Event: event, Data: data})
}

func (f *fakeBroadcaster) names() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Event)
	}
	return out
}

func testMessenger() *Messenger {
	return &Messenger{
		Host:           "wa.me",
		BusinessNumber: "5522998602746",
		CountryCode:    "55",
		StoreName:      "Liz Verdan Confeitaria",
		Instagram:      "@lizverdanconfeitaria",
		PickupAddress:  "Estr. dos Passageiros, 2915",
		Location:       time.UTC,
	}
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }
