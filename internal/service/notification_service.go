package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aastu-sis/registration-api/internal/models"
	"github.com/aastu-sis/registration-api/pkg/config"
	"github.com/aastu-sis/registration-api/pkg/jobs"
	"github.com/aastu-sis/registration-api/pkg/mailer"
	"github.com/aastu-sis/registration-api/pkg/pdf"
)

// mailPayload is the job body for the outbound mail queue.
type mailPayload struct {
	To         string
	Subject    string
	Body       string
	Attachment []byte
	Filename   string
}

// NotificationService emails students through a background queue so SMTP
// latency never sits on a request path. Failed sends are retried by the
// queue and eventually dropped with a log entry.
type NotificationService struct {
	mail     mailer.Mailer
	renderer *pdf.Renderer
	queue    *jobs.Queue
	logger   *zap.Logger
	metrics  *MetricsService
	enabled  bool
}

// NewNotificationService constructs the service and its mail queue.
func NewNotificationService(mail mailer.Mailer, cfg config.MailConfig, logger *zap.Logger, metrics *MetricsService) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{
		mail:     mail,
		renderer: pdf.NewRenderer(),
		logger:   logger,
		metrics:  metrics,
		enabled:  cfg.Enabled && mail != nil,
	}
	s.queue = jobs.NewQueue("mail", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the mail workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the mail workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

func (s *NotificationService) handleJob(_ context.Context, job jobs.Job) error {
	defer s.metrics.SetMailQueueDepth(s.queue.Depth())

	payload, ok := job.Payload.(mailPayload)
	if !ok {
		s.logger.Error("mail job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.mail.SendWithAttachment(payload.To, payload.Subject, payload.Body, payload.Attachment, payload.Filename)
}

// SendCostSharingForm renders the issued cost-sharing form as a PDF and
// queues it to the student's university address. Errors are logged, never
// returned; approval must not fail because mail did.
func (s *NotificationService) SendCostSharingForm(slip models.RegistrationSlip, student models.Student, form models.CostSharingForm) {
	if !s.enabled {
		return
	}
	if student.UniversityEmail == "" {
		s.logger.Warn("student has no university email, skipping cost sharing mail",
			zap.String("studentId", student.StudentID))
		return
	}

	document := s.costSharingDocument(slip, student, form)
	attachment, err := s.renderer.Render(document)
	if err != nil {
		s.logger.Error("failed to render cost sharing form pdf",
			zap.Int64("slipId", slip.ID), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Cost Sharing Form - %s (%s)", student.FullName, slip.Semester)
	body := fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>Your registration slip for %s has been approved by your advisor. "+
			"Please find your cost sharing form attached. Review it, complete the "+
			"personal details, and submit it for verification by the cost sharing office.</p>"+
			"<p>Total cost for the semester: %.2f ETB.</p>"+
			"<p>Office of the Registrar<br/>Addis Ababa Science and Technology University</p>",
		student.FullName, slip.Semester, form.TotalCost)

	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    "cost_sharing_form",
		Payload: mailPayload{To: student.UniversityEmail, Subject: subject, Body: body, Attachment: attachment, Filename: "cost-sharing-form.pdf"},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Error("failed to enqueue cost sharing mail",
			zap.Int64("slipId", slip.ID), zap.Error(err))
	}
	s.metrics.SetMailQueueDepth(s.queue.Depth())
}

func (s *NotificationService) costSharingDocument(slip models.RegistrationSlip, student models.Student, form models.CostSharingForm) pdf.Document {
	courseRows := make([][]string, 0, len(slip.Courses))
	for _, course := range slip.Courses {
		courseRows = append(courseRows, []string{course.CourseCode, course.CourseName, strconv.Itoa(course.CreditHours)})
	}

	serviceSelection := ""
	if form.ServiceSelection != nil {
		serviceSelection = *form.ServiceSelection
	}

	return pdf.Document{
		Title:    "Addis Ababa Science and Technology University",
		Subtitle: "Cost Sharing Beneficiaries Agreement Form",
		Sections: []pdf.Section{
			{
				Heading: "Student",
				Fields: []pdf.Field{
					{Label: "Full Name", Value: student.FullName},
					{Label: "Student ID", Value: student.StudentID},
					{Label: "Department", Value: student.Department},
					{Label: "Semester", Value: slip.Semester},
					{Label: "Academic Year", Value: strconv.Itoa(slip.AcademicYear)},
				},
			},
			{
				Heading: "Registered Courses",
				Table: &pdf.Table{
					Headers: []string{"Course Code", "Course Title", "Credit Hours"},
					Rows:    courseRows,
				},
			},
			{
				Heading: "Cost Schedule",
				Fields: []pdf.Field{
					{Label: "Tuition Fee (15%)", Value: fmt.Sprintf("%.2f ETB", form.TuitionFee15Percent)},
					{Label: "Food Expense", Value: fmt.Sprintf("%.2f ETB", form.FoodExpense)},
					{Label: "Boarding Expense", Value: fmt.Sprintf("%.2f ETB", form.BoardingExpense)},
					{Label: "Total Cost", Value: fmt.Sprintf("%.2f ETB", form.TotalCost)},
					{Label: "Service Selection", Value: serviceSelection},
				},
			},
		},
		Footer: fmt.Sprintf("Issued %s", time.Now().UTC().Format("02 Jan 2006")),
	}
}
