package domain

// Requester identifies who is acting on a reservation: a signed-in account or
// a guest known only by email. Lifecycle operations match on the variant once
// at the top instead of branching on an "is authenticated" flag throughout.
type Requester interface {
	isRequester()
}

// Account is an authenticated principal.
type Account struct {
	UserID int64
	Email  string
}

func (Account) isRequester() {}

// Guest identifies a reservation owner by email only.
type Guest struct {
	Email string
}

func (Guest) isRequester() {}
