package timezone

import "time"

// Fuso usado enquanto a barbearia não configura o seu.
const DefaultTimezone = "America/Sao_Paulo"

// IsValid aceita qualquer nome IANA carregável (ex.: America/Recife).
func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolve o fuso da barbearia; vazio ou inválido cai no padrão.
// Toda conta de dia/slot parte daqui — nunca do fuso do servidor.
func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func Now() time.Time {
	return NowIn(DefaultTimezone)
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
