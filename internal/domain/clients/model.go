package clients

import "time"

// CommunicationPreference es el canal preferido del cliente.
// @Enum email, sms, whatsapp
type CommunicationPreference string

const (
	PreferenceEmail    CommunicationPreference = "email"
	PreferenceSMS      CommunicationPreference = "sms"
	PreferenceWhatsApp CommunicationPreference = "whatsapp"
)

func (p CommunicationPreference) Valid() bool {
	switch p {
	case PreferenceEmail, PreferenceSMS, PreferenceWhatsApp:
		return true
	}
	return false
}

// Client es el dueño de una o más mascotas.
type Client struct {
	ID string

	Name  string
	Email string
	Phone string

	Preference CommunicationPreference

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WantsEmail indica si corresponde enviarle copia por email de sus recordatorios.
func (c Client) WantsEmail() bool {
	return c.Preference == PreferenceEmail && c.Email != ""
}
