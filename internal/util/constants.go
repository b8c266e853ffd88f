package util

import "regexp"

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// timer checkpoints arrive as elapsed "MM:SS" since attempt start
var timerPattern = regexp.MustCompile(`^\d{1,3}:[0-5]\d$`)

func ValidTimer(v string) bool {
	if v == "" {
		return true
	}
	return timerPattern.MatchString(v)
}
