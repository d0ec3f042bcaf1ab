package public

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"leave-approval-backend/controllers"
	callbacktoken "leave-approval-backend/lib/callback-token"
	leaveworkflow "leave-approval-backend/lib/leave-workflow"
	"leave-approval-backend/models"
)

// Колбэк согласования не требует аутентификации:
// пропуском служит сам одноразовый токен из письма.
type approvalApiController struct {
	controllers.BaseAPIController
}

func InitApprovalApiRouters(app *fiber.App) {
	controller := approvalApiController{}
	app.Route("approval", func(router fiber.Router) {
		router.Get("decision", controller.decision)
	})
}

// @Summary Решение по заявке
// @Tags Согласование
// @Description Обработка решения согласующего по ссылке из письма
// @Param	request_id			query 	string	true	"номер заявки"
// @Param	decision			query 	string	true	"решение (approve/reject)"
// @Param	token				query 	string	true	"одноразовый токен из письма"
// @Success 200
// @Failure 400
// @Failure 500
// @router /api/v1/approval/decision [get]
func (c *approvalApiController) decision(ctx *fiber.Ctx) error {
	requestID := ctx.Query("request_id")
	decision := ctx.Query("decision")
	token := ctx.Query("token")
	if requestID == "" || decision == "" || token == "" {
		return ctx.Status(fiber.StatusBadRequest).SendString("Не все параметры заполнены")
	}
	status, err := leaveworkflow.Instance.Resume(requestID, decision, token)
	if err != nil {
		switch {
		case errors.Is(err, callbacktoken.ErrTokenNotFound),
			errors.Is(err, callbacktoken.ErrTokenAlreadyConsumed),
			errors.Is(err, leaveworkflow.ErrAlreadyDecided),
			errors.Is(err, leaveworkflow.ErrEmptyParams):
			return ctx.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		c.GetLogger(ctx).WithError(err).Error("Ошибка обработки решения по заявке")
		return ctx.Status(fiber.StatusInternalServerError).SendString("Не удалось обработать решение, попробуйте позже")
	}
	if status == models.LeaveStatusApproved {
		return ctx.Status(fiber.StatusOK).SendString(fmt.Sprintf("Заявка %s согласована, заявитель уведомлен", requestID))
	}
	return ctx.Status(fiber.StatusOK).SendString(fmt.Sprintf("Заявка %s отклонена, заявитель уведомлен", requestID))
}
