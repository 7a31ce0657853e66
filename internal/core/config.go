package core

type AppConfig interface {
	GetRuntimePath() string
	GetRootCommand() string
	GetDatabasePath() string
	GetHistoryPath() string
	IsTelegramSelected() bool
	IsCLISelected() bool
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
	GetTelegramRate() float64
	GetTelegramBurst() int
}
