package dto

// LoginForm is the body of POST /login.
type LoginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// ProcessForm is the body of POST /processos/save.
type ProcessForm struct {
	Number      string `form:"numero" json:"numero"`
	Title       string `form:"titulo" json:"titulo"`
	Description string `form:"descricao" json:"descricao"`
	Status      string `form:"status" json:"status"`
	StartDate   string `form:"data_inicio" json:"data_inicio"`
	EndDate     string `form:"data_fim" json:"data_fim"`
}
