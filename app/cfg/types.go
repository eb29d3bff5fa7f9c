package cfg

import "time"

type Cfg struct {
	// Storage
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Calendar
	CalendarTimezone string
	CalendarLocation *time.Location

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
