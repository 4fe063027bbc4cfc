package models

type User struct {
	Name     string `bson:"name" json:"name"`
	Username string `bson:"username" json:"username"`
	Password string `bson:"password" json:"-"`
	Document string `bson:"document" json:"-"` // CPF, scopes every generated query
	Base     `bson:",inline"`
}

func NewUser(name, username, password, document string) *User {
	return &User{
		Name:     name,
		Username: username,
		Password: password,
		Document: document,
		Base:     NewBase(),
	}
}
