package xlsexport

import (
	"bytes"

	dbmodels "leave-approval-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportLeaveRegister(list []dbmodels.LeaveRequest) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var leaveHeaders = []string{"Номер заявки", "Заявитель", "Согласующий", "Тип отпуска", "Дата начала", "Дата окончания", "Причина", "Статус", "Дата подачи"}

func (i impl) ExportLeaveRegister(list []dbmodels.LeaveRequest) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, leaveHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	for _, item := range list {
		row++
		col := 1
		// "Номер заявки"
		if err := writeColumn(f, sheet, col, row, item.ID); err != nil {
			return nil, err
		}

		// "Заявитель"
		col++
		if err := writeColumn(f, sheet, col, row, item.RequesterEmail); err != nil {
			return nil, err
		}

		// "Согласующий"
		col++
		if err := writeColumn(f, sheet, col, row, item.ApproverEmail); err != nil {
			return nil, err
		}

		// "Тип отпуска"
		col++
		if err := writeColumn(f, sheet, col, row, item.LeaveType); err != nil {
			return nil, err
		}

		// "Дата начала"
		col++
		if err := writeColumn(f, sheet, col, row, item.StartDate); err != nil {
			return nil, err
		}

		// "Дата окончания"
		col++
		if err := writeColumn(f, sheet, col, row, item.EndDate); err != nil {
			return nil, err
		}

		// "Причина"
		col++
		if err := writeColumn(f, sheet, col, row, item.Reason); err != nil {
			return nil, err
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.Status)); err != nil {
			return nil, err
		}

		// "Дата подачи"
		col++
		if err := writeColumn(f, sheet, col, row, item.CreatedAt.Format("02.01.2006 15:04")); err != nil {
			return nil, err
		}
	}
	f.SetSheetName(sheet, "Заявки на отпуск")
	return f.WriteToBuffer()
}
