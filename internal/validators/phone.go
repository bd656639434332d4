package validators

import "strings"

// IsPhoneValid aceita dígitos com formatação comum (+55 (11) 91234-5678).
// Validação superficial de propósito: quem manda SMS/WhatsApp valida de verdade.
func IsPhoneValid(phone string) bool {
	digits := 0
	for _, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')':
			// formatação permitida
		default:
			return false
		}
	}
	return digits >= 8 && digits <= 15
}
