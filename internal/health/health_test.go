package health

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joao-brasil/stock-overview/internal/config"
	"github.com/joao-brasil/stock-overview/internal/pool"
)

type fakeDB struct {
	cfg   config.ConnectionConfig
	stats pool.Stats
	err   error
}

func (f fakeDB) Ping(context.Context) error       { return f.err }
func (f fakeDB) Stats() pool.Stats                { return f.stats }
func (f fakeDB) Config() config.ConnectionConfig { return f.cfg }

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestCheckDatabase_Connected(t *testing.T) {
	cfg := config.Resolve(config.MapLookup(map[string]string{"SQL_SERVER": "db.local,1433"}))
	report := NewChecker(fakeDB{cfg: cfg}, nil).CheckDatabase(context.Background())

	require.True(t, report.OK)
	require.Equal(t, "connected", report.DB)
	require.Empty(t, report.Details)

	body, err := json.Marshal(report)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"ok": true,
		"db": "connected",
		"config": {"server": "db.local", "port": 1433, "instanceName": null, "database": "wms3"}
	}`, string(body))
}

func TestCheckDatabase_Disconnected(t *testing.T) {
	cfg := config.Resolve(config.MapLookup(nil))
	report := NewChecker(fakeDB{cfg: cfg, err: errors.New("login failed")}, nil).CheckDatabase(context.Background())

	require.False(t, report.OK)
	require.Equal(t, "disconnected", report.DB)
	require.Equal(t, "login failed", report.Details)

	body, err := json.Marshal(report)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"ok": false,
		"db": "disconnected",
		"details": "login failed",
		"config": {"server": "192.168.1.10", "port": null, "instanceName": "WEAVER", "database": "wms3"}
	}`, string(body))
}

func TestCheck_AllHealthy(t *testing.T) {
	c := NewChecker(fakeDB{}, fakePinger{})
	report := c.Check(context.Background())

	require.Equal(t, StatusHealthy, report.Status)
	require.Len(t, report.Components, 2)
	require.NotEmpty(t, report.Timestamp)
}

func TestCheck_ReportsPoolAndKeepsOrder(t *testing.T) {
	db := fakeDB{stats: pool.Stats{State: pool.StateReady, Open: 3, InUse: 2, Idle: 1, MaxOpen: 10}}
	report := NewChecker(db, fakePinger{}).Check(context.Background())

	require.Equal(t, StatusHealthy, report.Status)
	require.Equal(t, "sqlserver", report.Components[0].Name)
	require.Equal(t, "redis", report.Components[1].Name)
	require.Nil(t, report.Components[1].Pool)

	sqlserver := report.Components[0]
	require.Equal(t, "pool ready, 2 of 10 connections in use", sqlserver.Message)
	require.Equal(t, &PoolStatus{State: "ready", Open: 3, InUse: 2, Idle: 1, MaxOpen: 10}, sqlserver.Pool)
}

func TestCheck_DatabaseDownReportsPoolState(t *testing.T) {
	db := fakeDB{
		stats: pool.Stats{State: pool.StateFailed, MaxOpen: 10},
		err:   errors.New("login timeout"),
	}
	report := NewChecker(db, fakePinger{}).Check(context.Background())

	require.Equal(t, StatusUnhealthy, report.Status)
	sqlserver := report.Components[0]
	require.Equal(t, StatusUnhealthy, sqlserver.Status)
	require.Equal(t, "pool failed: login timeout", sqlserver.Message)
	require.Equal(t, "failed", sqlserver.Pool.State)
	require.Equal(t, StatusHealthy, report.Components[1].Status)
}

func TestCheck_UnhealthyCache(t *testing.T) {
	c := NewChecker(fakeDB{}, fakePinger{err: errors.New("connection refused")})
	report := c.Check(context.Background())

	require.Equal(t, StatusUnhealthy, report.Status)
	for _, comp := range report.Components {
		if comp.Name == "redis" {
			require.Equal(t, StatusUnhealthy, comp.Status)
			require.Contains(t, comp.Message, "connection refused")
		} else {
			require.Equal(t, StatusHealthy, comp.Status)
		}
	}
}

func TestCheck_WithoutCache(t *testing.T) {
	report := NewChecker(fakeDB{err: errors.New("down")}, nil).Check(context.Background())

	require.Equal(t, StatusUnhealthy, report.Status)
	require.Len(t, report.Components, 1)
	require.Equal(t, "sqlserver", report.Components[0].Name)
}
