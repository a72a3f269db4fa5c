package order

// Fulfillment stages, in the only order they may be traversed.
const (
	StatusRegistrado = "Registrado"
	StatusAprobado   = "Aprobado"
	StatusPreparado  = "Preparado"
	StatusLlevando   = "Llevando"
	StatusEntregado  = "Entregado"
)

var statusSteps = []string{
	StatusRegistrado,
	StatusAprobado,
	StatusPreparado,
	StatusLlevando,
	StatusEntregado,
}

// StatusSteps returns the fixed stage sequence, first to last.
func StatusSteps() []string {
	return append([]string(nil), statusSteps...)
}

// StatusIndex returns the position of status in the stage sequence, or -1
// for unknown values. Unknown statuses are tolerated, not rejected: callers
// render them as "no current step".
func StatusIndex(status string) int {
	for i, s := range statusSteps {
		if s == status {
			return i
		}
	}
	return -1
}

func ValidStatus(status string) bool { return StatusIndex(status) >= 0 }

func IsTerminal(status string) bool {
	return status == statusSteps[len(statusSteps)-1]
}

// NextStatus returns the stage immediately following status. The terminal
// stage and unknown statuses map to themselves; there is no transition out
// of either.
func NextStatus(status string) string {
	i := StatusIndex(status)
	if i < 0 || i >= len(statusSteps)-1 {
		return status
	}
	return statusSteps[i+1]
}
