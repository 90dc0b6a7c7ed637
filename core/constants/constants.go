package constants

import "time"

// Database
const (
	DatabaseDriverPostgres  = "postgres"
	DatabaseDriverSQLite    = "sqlite"
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	SQLiteBusyTimeoutMillis = 5000
)

// Tables
const (
	TableGuests      = "guests"
	TableAttendance  = "attendance"
	TableDrawWinners = "draw_winners"
	TableEventAssets = "event_assets"
	TableAssetBlobs  = "asset_blobs"
)

// Timestamps are stored as fixed-width local time strings so that text ordering
// matches chronological ordering.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DefaultTimezone = "Asia/Kuala_Lumpur"
)

// Import columns
const (
	ColumnEmail   = "Email"
	ColumnName    = "Nama"
	ColumnTableID = "No_Meja"
	ColumnTitle   = "Gelaran"

	DefaultMinEmailLength = 4
)

// Redis keys
const (
	RedisKeyGuestPrefix       = "checkin:guest:"
	RedisKeyGuestVersion      = "checkin:guest:version"
	RedisKeyAdminLoginAttempt = "checkin:admin:login:"
)

// Admin
const (
	ScopeTokenAdmin       = "admin"
	DefaultAdminPIN       = "2025"
	DefaultTokenTTL       = 12 * time.Hour
	MaxLoginAttempts      = 5
	BlockDuration         = 15 * time.Minute
	ContextKeyTokenClaims = "token_data"
)

// Queue
const (
	TaskTypeGuestImport = "guest:import"
	QueueDefault        = "default"
)

const (
	DefaultTimeout        = 10 * time.Second
	ShutdownTimeout       = 10 * time.Second
	DefaultMaxUploadBytes = 10 << 20
	DefaultPageSize       = 50
	MaxPageSize           = 500
)
