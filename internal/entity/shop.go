package entity

type Shop struct {
	Base

	Name   string
	Branch string
}
