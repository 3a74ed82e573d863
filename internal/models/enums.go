package models

type CultivationStatus string

const (
	CultivationActive    CultivationStatus = "active"
	CultivationCompleted CultivationStatus = "completed"
	CultivationArchived  CultivationStatus = "archived"
)

type EventType string

const (
	EventWatering    EventType = "watering"
	EventFeeding     EventType = "feeding"
	EventPruning     EventType = "pruning"
	EventHarvest     EventType = "harvest"
	EventProblem     EventType = "problem"
	EventNote        EventType = "note"
	EventPhaseChange EventType = "phase_change"
)

type NotificationType string

const (
	NotificationReminder    NotificationType = "REMINDER"
	NotificationAlert       NotificationType = "ALERT"
	NotificationAchievement NotificationType = "ACHIEVEMENT"
	NotificationSystem      NotificationType = "SYSTEM"
)

type NotificationPriority string

const (
	PriorityLow      NotificationPriority = "LOW"
	PriorityMedium   NotificationPriority = "MEDIUM"
	PriorityHigh     NotificationPriority = "HIGH"
	PriorityCritical NotificationPriority = "CRITICAL"
)
