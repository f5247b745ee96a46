package user

type User struct {
	Id          int
	Uid         string
	Email       string
	DisplayName string
	Settings    Settings
}

// ReportSubscription identifies one of the periodic report mails a user can opt into.
type ReportSubscription string

const (
	WeekReport  ReportSubscription = "week"
	MonthReport ReportSubscription = "month"
)

type Settings struct {
	// Timezone is an IANA identifier; report windows are resolved in this zone.
	Timezone           string
	ReceiveWeekReport  bool
	ReceiveMonthReport bool
}
