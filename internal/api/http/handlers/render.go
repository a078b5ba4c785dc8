package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/process-desk/internal/session"
	"github.com/spec-kit/process-desk/internal/web"
	apperrors "github.com/spec-kit/process-desk/pkg/util"
)

const (
	msgSaved            = "Processo salvo com sucesso!"
	msgDeleted          = "Processo excluído com sucesso!"
	msgProcessNotFound  = "Processo não encontrado"
	msgPageNotFound     = "Página não encontrada"
	msgConnectionFailed = "Não foi possível conectar ao banco de dados"
	msgQueryFailed      = "Erro ao executar a operação no banco de dados"
	msgInternal         = "Erro interno"
	msgRequiredField    = "Campo obrigatório"
	msgInvalidField     = "Valor inválido"
)

// UserMessage turns a classified error into the text shown on the page.
func UserMessage(err error) string {
	de := apperrors.ToDomainError(err)
	if de == nil {
		return ""
	}
	switch de.Code {
	case apperrors.CodeConfiguration, apperrors.CodeValidation, apperrors.CodeUnauthorized:
		return de.Message
	case apperrors.CodeConnection:
		return msgConnectionFailed
	case apperrors.CodeQuery, apperrors.CodeConflict:
		return msgQueryFailed
	case apperrors.CodeNotFound:
		return msgProcessNotFound
	default:
		return msgInternal
	}
}

// PageErrorMessage is the text of the standalone error page.
func PageErrorMessage(err error) string {
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		return msgPageNotFound
	}
	return UserMessage(err)
}

func statusOf(err error) int {
	if de := apperrors.ToDomainError(err); de != nil {
		return de.HTTPStatus
	}
	return fiber.StatusOK
}

func shellFor(sess *session.Session, active string) *web.Shell {
	return &web.Shell{
		Username:     sess.State.Username,
		Menu:         web.Menu(active),
		Flash:        sess.State.TakeFlash(),
		LastActivity: sess.State.LastActivity,
	}
}

func render(c *fiber.Ctx, status int, name string, view interface{}) error {
	return c.Status(status).Render(name, view, web.LayoutName)
}

func redirect(c *fiber.Ctx, to string) error {
	return c.Redirect(to, fiber.StatusSeeOther)
}
