package models

// PrivacyTier grades how sensitive a memory is. Higher tiers need an
// explicit, specific ask before they surface.
type PrivacyTier int

const (
	// TierOpen content can surface anywhere.
	TierOpen PrivacyTier = 1
	// TierPersonal content is blocked from implicit surfacing.
	TierPersonal PrivacyTier = 2
	// TierIntimate content needs an explicit ask and a private setting.
	TierIntimate PrivacyTier = 3
)

// Sensitivity tags a memory with a content category the appropriateness
// filter reasons about.
type Sensitivity string

const (
	SensitivityIntimate  Sensitivity = "intimate"
	SensitivityMedical   Sensitivity = "medical"
	SensitivityFinancial Sensitivity = "financial"
	SensitivityCareer    Sensitivity = "career"
	SensitivityAdult     Sensitivity = "adult"
	SensitivityDistress  Sensitivity = "distress"
)

// LocationKind classifies where the user physically is.
type LocationKind string

const (
	LocationHome    LocationKind = "home"
	LocationOffice  LocationKind = "office"
	LocationPublic  LocationKind = "public"
	LocationPrivate LocationKind = "private"
	LocationUnknown LocationKind = "unknown"
)

// DeviceTrust classifies the device a result would render on.
type DeviceTrust string

const (
	DeviceTrusted  DeviceTrust = "trusted"
	DeviceShared   DeviceTrust = "shared"
	DeviceEmployer DeviceTrust = "employer"
)

// BystanderRole classifies a person present while a memory would surface.
type BystanderRole string

const (
	RoleBoss     BystanderRole = "boss"
	RoleChild    BystanderRole = "child"
	RoleStranger BystanderRole = "stranger"
	RoleFriend   BystanderRole = "friend"
	RolePartner  BystanderRole = "partner"
)

// Bystander is a person present in the current situation.
type Bystander struct {
	Name string        `json:"name,omitempty"`
	Role BystanderRole `json:"role"`
}

// SurfacingContext describes the situation a memory would surface into,
// independent of its relevance.
type SurfacingContext struct {
	// WasExplicitlyRequested is true when the user asked for this
	// specific content, as opposed to proactive or implicit surfacing.
	WasExplicitlyRequested bool `json:"was_explicitly_requested"`

	Location LocationKind `json:"location"`

	Device DeviceTrust `json:"device"`

	Bystanders []Bystander `json:"bystanders,omitempty"`

	// UserDistressed indicates the user is currently highly distressed,
	// suppressing distress-inducing content.
	UserDistressed bool `json:"user_distressed,omitempty"`
}
