package jobs

import "fmt"

// DefaultInterval is the schedule used when no interval is configured.
const DefaultInterval = "1day"

// cronSpecs maps the configurable interval names onto cron expressions.
// The names mirror what the admin surface offers in its schedule dropdown.
var cronSpecs = map[string]string{
	"1min":    "* * * * *",
	"5mins":   "*/5 * * * *",
	"10mins":  "*/10 * * * *",
	"15mins":  "*/15 * * * *",
	"30mins":  "*/30 * * * *",
	"60mins":  "0 * * * *",
	"6hours":  "0 */6 * * *",
	"12hours": "0 */12 * * *",
	"1day":    "0 0 * * *",
}

// CronSpec resolves an interval name into a cron expression. An empty name
// falls back to DefaultInterval; an unknown name is an error so a config
// typo fails at startup rather than silently never running.
func CronSpec(interval string) (string, error) {
	if interval == "" {
		interval = DefaultInterval
	}

	spec, ok := cronSpecs[interval]
	if !ok {
		return "", fmt.Errorf("unknown processing interval %q", interval)
	}

	return spec, nil
}
