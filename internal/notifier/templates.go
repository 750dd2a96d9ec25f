package notifier

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/purushoth411/callback-sub000/internal/models"
)

// Шаблоны писем для персонала и клиента. Тон и состав полей унаследованы
// от исходной системы: короткое HTML-письмо с датой, слотом и статусом.
var (
	staffTmpl = template.Must(template.New("staff").Parse(`
<p>Dear {{.StaffName}},</p>
<p>The consultation call for <b>{{.ClientName}}</b> scheduled on
<b>{{.BookingDate}}</b> at <b>{{.BookingSlot}}</b> has been
<b>{{.StatusLine}}</b>.</p>
<p>Booking ID: {{.BookingID}}</p>
<p>Regards,<br>Booking Desk</p>
`))

	clientTmpl = template.Must(template.New("client").Parse(`
<p>Dear {{.ClientName}},</p>
<p>Your consultation call scheduled on <b>{{.BookingDate}}</b> at
<b>{{.BookingSlot}}</b> has been confirmed.</p>
<p>You can view the details of your booking here:
<a href="{{.DetailLink}}">{{.DetailLink}}</a></p>
<p>Regards,<br>Booking Desk</p>
`))
)

type staffMailData struct {
	StaffName   string
	ClientName  string
	BookingDate string
	BookingSlot string
	StatusLine  string
	BookingID   int64
}

type clientMailData struct {
	ClientName  string
	BookingDate string
	BookingSlot string
	DetailLink  string
}

// statusLine переводит статус в формулировку письма
func statusLine(s models.Status) string {
	switch s {
	case models.StatusAccept:
		return "accepted by the consultant"
	case models.StatusReject:
		return "rejected by the consultant"
	case models.StatusRescheduled:
		return "rescheduled"
	case models.StatusCancelled:
		return "cancelled"
	default:
		return "updated to " + s.String()
	}
}

func staffSubject(s models.Status, bookingID int64) string {
	return fmt.Sprintf("Consultation call %s - booking #%d", s.String(), bookingID)
}

func renderStaffMail(data staffMailData) (string, error) {
	var buf bytes.Buffer
	if err := staffTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render staff mail: %w", err)
	}
	return buf.String(), nil
}

func renderClientMail(data clientMailData) (string, error) {
	var buf bytes.Buffer
	if err := clientTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render client mail: %w", err)
	}
	return buf.String(), nil
}
