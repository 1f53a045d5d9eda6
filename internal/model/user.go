package model

import "time"

const DefaultPhotoURL = "https://upload.wikimedia.org/wikipedia/commons/a/ac/Default_pfp.jpg"

type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"emailId"`
	PasswordHash string    `json:"-"`
	PhotoURL     string    `json:"photoUrl"`
	About        string    `json:"about"`
	Skills       []string  `json:"skills"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserPublic is the subset of User safe to return to other users.
type UserPublic struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	PhotoURL  string   `json:"photoUrl"`
	About     string   `json:"about"`
	Skills    []string `json:"skills"`
}

func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		PhotoURL:  u.PhotoURL,
		About:     u.About,
		Skills:    u.Skills,
	}
}
