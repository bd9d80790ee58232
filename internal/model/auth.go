package model

type AccessToken struct {
	ID   uint64 `json:"id"`
	Role string `json:"role"`
}
