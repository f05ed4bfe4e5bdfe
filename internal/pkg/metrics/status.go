package metrics

import "strconv"

func statusLabel(status int) string {
	if status <= 0 {
		return "unknown"
	}
	return strconv.Itoa(status)
}
