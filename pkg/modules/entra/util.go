package entra

import "time"

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func int32Ptr(v int32) *int32 {
	return &v
}
