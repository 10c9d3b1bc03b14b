package notifications

import "time"

// Category de la notificación.
// @Enum general, appointment, vaccine, deworming, medication, emergency, system, birthday, checkup
type Category string

const (
	CategoryGeneral     Category = "general"
	CategoryAppointment Category = "appointment"
	CategoryVaccine     Category = "vaccine"
	CategoryDeworming   Category = "deworming"
	CategoryMedication  Category = "medication"
	CategoryEmergency   Category = "emergency"
	CategorySystem      Category = "system"
	CategoryBirthday    Category = "birthday"
	CategoryCheckup     Category = "checkup"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryAppointment, CategoryVaccine, CategoryDeworming,
		CategoryMedication, CategoryEmergency, CategorySystem, CategoryBirthday, CategoryCheckup:
		return true
	}
	return false
}

// Priority de la notificación.
// @Enum low, normal, high, urgent
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type RecipientKind string

const (
	RecipientClient RecipientKind = "client"
	RecipientStaff  RecipientKind = "staff"
)

// Recipient es el destinatario concreto de una fila de notificación.
type Recipient struct {
	Kind RecipientKind
	ID   string
}

func ClientRecipient(id string) Recipient { return Recipient{Kind: RecipientClient, ID: id} }
func StaffRecipient(id string) Recipient  { return Recipient{Kind: RecipientStaff, ID: id} }

type AudienceKind string

const (
	AudienceSingleClient AudienceKind = "single_client"
	AudienceAllClients   AudienceKind = "all_clients"
	AudienceAdmins       AudienceKind = "admins"
)

// Audience es el modo de direccionamiento. Se materializa en filas por
// destinatario al momento de publicar; quien se sume después no la recibe.
type Audience struct {
	Kind     AudienceKind
	ClientID string
}

func SingleClient(id string) Audience { return Audience{Kind: AudienceSingleClient, ClientID: id} }
func AllClients() Audience            { return Audience{Kind: AudienceAllClients} }
func Admins() Audience                { return Audience{Kind: AudienceAdmins} }

// Notification es inmutable salvo el paso a leída (solo unread -> read).
type Notification struct {
	ID        string
	Recipient Recipient

	Category Category
	Priority Priority
	Title    string
	Message  string
	Link     string

	RelatedID   string
	RelatedKind string

	// DedupKey es opcional y único en el store.
	DedupKey string

	Read   bool
	ReadAt *time.Time

	CreatedAt time.Time
}

// Draft es una notificación todavía sin destinatarios concretos.
type Draft struct {
	Audience Audience

	Category Category
	Priority Priority
	Title    string
	Message  string
	Link     string

	RelatedID   string
	RelatedKind string
	DedupKey    string
}

// NoLimit en ListFilter.Limit devuelve todas las filas; 0 usa el límite por defecto.
const NoLimit = -1

type ListFilter struct {
	UnreadOnly bool
	Limit      int
}
