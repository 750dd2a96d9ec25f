package models

import "fmt"

// Status - статус консультации или call-request.
// В унаследованной схеме статусы хранятся как свободный текст, поэтому
// ParseStatus сохраняет неизвестные значения как есть вместо ошибки.
type Status string

const (
	StatusPending     Status = "Pending"
	StatusAccept      Status = "Accept"
	StatusReject      Status = "Reject"
	StatusRescheduled Status = "Rescheduled"
	StatusCancelled   Status = "Cancelled"
	StatusCompleted   Status = "Completed"

	// Статусы call-request, которые встречаются только в fld_call_request_sts
	StatusCallScheduled   Status = "Call Scheduled"
	StatusCallRescheduled Status = "Call Rescheduled"
)

var knownStatuses = map[Status]struct{}{
	StatusPending:         {},
	StatusAccept:          {},
	StatusReject:          {},
	StatusRescheduled:     {},
	StatusCancelled:       {},
	StatusCompleted:       {},
	StatusCallScheduled:   {},
	StatusCallRescheduled: {},
}

func ParseStatus(raw string) Status {
	s := Status(raw)
	if _, ok := knownStatuses[s]; ok {
		return s
	}
	// Неизвестное унаследованное значение сохраняем без изменений
	return s
}

func (s Status) Known() bool {
	_, ok := knownStatuses[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// Scan проводит значения из базы через ParseStatus: строки статусов в
// выборках всегда проходят разбор, а не копируются вслепую
func (s *Status) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = ""
	case string:
		*s = ParseStatus(v)
	case []byte:
		*s = ParseStatus(string(v))
	default:
		return fmt.Errorf("неподдерживаемый тип статуса %T", value)
	}
	return nil
}

// Отметки посещаемости консультанта
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
)

// CallTypeDirect - звонки, созданные напрямую клиентом, автоподтверждение
// их не трогает
const CallTypeDirect = "direct_call"
