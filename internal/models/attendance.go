package models

// EventAttendance is this service's record of an event it tracks
// attendance for. The event itself lives in the event service; only the
// id is persisted here. An event with no attendee rows is treated as
// having no attendance record at all.
type EventAttendance struct {
	ID int64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
}

func (EventAttendance) TableName() string { return "events" }

// EventAttendee is one row of the event/employee join table.
type EventAttendee struct {
	EventID    int64 `gorm:"primaryKey;autoIncrement:false" json:"eventId"`
	EmployeeID uint  `gorm:"primaryKey;autoIncrement:false;index" json:"employeeId"`
}

func (EventAttendee) TableName() string { return "event_attended" }
