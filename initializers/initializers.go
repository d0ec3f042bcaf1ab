package initializers

import (
	"context"

	"leave-approval-backend/config"
	"leave-approval-backend/fiberlog"
	callbacktoken "leave-approval-backend/lib/callback-token"
	xlsexport "leave-approval-backend/lib/export/xls"
	leaveworkflow "leave-approval-backend/lib/leave-workflow"
	"leave-approval-backend/lib/notification"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitSmtp()
	callbacktoken.NewHandler()
	notification.NewHandler(config.Conf.Smtp.EmailFrom)
	leaveworkflow.NewHandler()
	xlsexport.NewHandler()
}
