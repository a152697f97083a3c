package messaging

// Profile is the slice of a user record the messaging core reads.
// The account subsystem owns the rest.
type Profile struct {
	Username       string  `json:"username"`
	ProfilePicture *string `json:"profile_picture"`
}
