package medications

import (
	"regexp"
	"strings"
)

// timeOfDayRe valida "HH:MM" 24h con cero a la izquierda (00:00–23:59).
// El formato zero-padded hace que el orden lexicográfico coincida con el
// cronológico, cosa que asume el schedule del día.
var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func ValidTimeOfDay(s string) bool {
	return timeOfDayRe.MatchString(s)
}

// normalizeSchedule recorta espacios y valida cada entrada.
// Devuelve nil si el schedule está vacío o alguna entrada es inválida.
func normalizeSchedule(schedule []string) []string {
	if len(schedule) == 0 {
		return nil
	}

	out := make([]string, 0, len(schedule))
	for _, t := range schedule {
		t = strings.TrimSpace(t)
		if !ValidTimeOfDay(t) {
			return nil
		}
		out = append(out, t)
	}
	return out
}
