package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"leave-approval-backend/config"
	"leave-approval-backend/controllers"
	xlsexport "leave-approval-backend/lib/export/xls"
	leaverequeststore "leave-approval-backend/lib/leave-request/store"
	leaveworkflow "leave-approval-backend/lib/leave-workflow"
	"leave-approval-backend/middleware"
	"leave-approval-backend/models"
	apimodels "leave-approval-backend/models/api"
	leaveapimodels "leave-approval-backend/models/api/leave"

	"github.com/pkg/errors"
)

type leaveRequestApiController struct {
	controllers.BaseAPIController
}

func InitLeaveRequestApiRouters(app *fiber.App) {
	controller := leaveRequestApiController{}
	app.Route("leave_request", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("list", controller.list)
		router.Get("export", controller.export)
		router.Get(":id", controller.get)
	})
}

// @Summary Создание заявки на отпуск
// @Tags Заявка на отпуск
// @Description Создание заявки на отпуск и отправка письма согласующему
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		leaveapimodels.LeaveRequestCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=leaveapimodels.LeaveRequestCreatedResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave_request [post]
func (c *leaveRequestApiController) create(ctx *fiber.Ctx) error {
	var payload leaveapimodels.LeaveRequestCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	requesterEmail := middleware.GetUserEmail(ctx)
	if requesterEmail == "" {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	id, err := leaveworkflow.Instance.Create(requesterEmail, payload, c.getBaseURL(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(leaveapimodels.LeaveRequestCreatedResponse{RequestID: id}))
}

// @Summary Список заявок
// @Tags Заявка на отпуск
// @Description Список заявок текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		leaveapimodels.LeaveRequestFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]leaveapimodels.LeaveRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave_request/list [post]
func (c *leaveRequestApiController) list(ctx *fiber.Ctx) error {
	var payload leaveapimodels.LeaveRequestFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	requesterEmail := middleware.GetUserEmail(ctx)
	if requesterEmail == "" {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	list, rowCount, err := leaveworkflow.Instance.List(requesterEmail, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Получение по ИД
// @Tags Заявка на отпуск
// @Description Получение заявки по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=leaveapimodels.LeaveRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave_request/{id} [get]
func (c *leaveRequestApiController) get(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан ИД заявки"))
	}
	view, err := leaveworkflow.Instance.GetByID(id)
	if err != nil {
		if errors.Is(err, leaverequeststore.ErrRequestNotFound) {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заявки")
	}
	requesterEmail := middleware.GetUserEmail(ctx)
	if view.RequesterEmail != requesterEmail && view.ApproverEmail != requesterEmail {
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("заявка недоступна"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Выгрузка реестра
// @Tags Заявка на отпуск
// @Description Выгрузка реестра заявок текущего пользователя в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	status				query 	string	false	"фильтр по статусу"
// @Success 200
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/leave_request/export [get]
func (c *leaveRequestApiController) export(ctx *fiber.Ctx) error {
	requesterEmail := middleware.GetUserEmail(ctx)
	if requesterEmail == "" {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	status := models.LeaveStatus(ctx.Query("status"))
	list, err := leaveworkflow.Instance.ListAll(requesterEmail, status)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	buf, err := xlsexport.Instance.ExportLeaveRegister(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования файла")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="leave_requests.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (c *leaveRequestApiController) getBaseURL(ctx *fiber.Ctx) string {
	if config.Conf.App.PublicBaseURL != "" {
		return config.Conf.App.PublicBaseURL
	}
	return ctx.BaseURL()
}
