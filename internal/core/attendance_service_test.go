package core

import (
	"context"
	"errors"

	"fieldtrack.service/internal/adapters/memstore"
	"fieldtrack.service/internal/core/model"
	"fieldtrack.service/internal/ports/messaging"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

const attendanceTable = "attendance"

// capturingProducer records published events instead of sending them.
type capturingProducer struct {
	events      []messaging.ClockOutEvent
	returnError bool
}

func (p *capturingProducer) PublishClockOut(ctx context.Context, event messaging.ClockOutEvent) error {
	if p.returnError {
		return errors.New("queue unreachable")
	}
	p.events = append(p.events, event)
	return nil
}

var _ = ginkgo.Describe("AttendanceService", func() {
	var (
		ctx       context.Context
		directory *DirectoryService
		locations *LocationService
		producer  *capturingProducer
		service   *AttendanceService
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		st := memstore.NewStore()
		directory = NewDirectoryService(st, employeesTable, PlaintextVerifier{})
		locations = NewLocationService(st, locationsTable, directory)
		producer = &capturingProducer{}
		service = NewAttendanceService(st, attendanceTable, directory, producer)
	})

	ginkgo.Describe("ClockIn", func() {
		ginkgo.It("should open today's record as present with no clock-out", func() {
			record, err := service.ClockIn(ctx, "E1")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(record.AttendanceID).To(gomega.Equal("E1_" + record.Date))
			gomega.Expect(record.Status).To(gomega.Equal(model.StatusAttendancePresent))
			gomega.Expect(record.ClockInTime).ToNot(gomega.BeZero())
			gomega.Expect(record.ClockOutTime).To(gomega.BeNil())
			gomega.Expect(record.IsClockedIn()).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a second clock-in on the same day", func() {
			_, err := service.ClockIn(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ClockIn(ctx, "E1")
			gomega.Expect(err).To(gomega.MatchError(ErrAlreadyClockedIn))
		})

		ginkgo.It("should reject a missing employee id", func() {
			_, err := service.ClockIn(ctx, "")
			gomega.Expect(err).To(gomega.MatchError(ErrMissingFields))
		})
	})

	ginkgo.Describe("ClockOut", func() {
		ginkgo.It("should fail when there is no session today", func() {
			_, err := service.ClockOut(ctx, "E1")
			gomega.Expect(err).To(gomega.MatchError(ErrNoActiveSession))
		})

		ginkgo.It("should close the session and stamp hours worked", func() {
			_, err := service.ClockIn(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			record, err := service.ClockOut(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(record.ClockOutTime).ToNot(gomega.BeNil())
			gomega.Expect(record.HoursWorked).To(gomega.BeNumerically(">=", 0))
		})

		ginkgo.It("should publish a summary event after a successful clock-out", func() {
			_, err := service.ClockIn(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			record, err := service.ClockOut(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(producer.events).To(gomega.HaveLen(1))
			gomega.Expect(producer.events[0].EmployeeID).To(gomega.Equal("E1"))
			gomega.Expect(producer.events[0].AttendanceID).To(gomega.Equal(record.AttendanceID))
		})

		ginkgo.It("should not surface a publish failure to the caller", func() {
			producer.returnError = true

			_, err := service.ClockIn(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ClockOut(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should allow a repeated clock-out, moving the clock-out time", func() {
			_, err := service.ClockIn(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			first, err := service.ClockOut(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			second, err := service.ClockOut(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(second.ClockOutTime.Before(*first.ClockOutTime)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("Status", func() {
		ginkgo.It("should report no record and not clocked in before any clock-in", func() {
			record, clockedIn, err := service.Status(ctx, "E1")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(record).To(gomega.BeNil())
			gomega.Expect(clockedIn).To(gomega.BeFalse())
		})

		ginkgo.It("should follow the full clock-in/clock-out day", func() {
			_, err := service.ClockIn(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			record, clockedIn, err := service.Status(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(clockedIn).To(gomega.BeTrue())
			gomega.Expect(record.ClockOutTime).To(gomega.BeNil())

			_, err = service.ClockOut(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			record, clockedIn, err = service.Status(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(clockedIn).To(gomega.BeFalse())
			gomega.Expect(record.ClockInTime).ToNot(gomega.BeZero())
			gomega.Expect(record.ClockOutTime).ToNot(gomega.BeNil())
		})
	})

	ginkgo.Describe("DailyStats", func() {
		ginkgo.It("should count present and still-active sessions for today", func() {
			_, err := service.ClockIn(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.ClockIn(ctx, "E2")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.ClockOut(ctx, "E2")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			stats, err := service.DailyStats(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stats.PresentCount).To(gomega.Equal(2))
			gomega.Expect(stats.ActiveCount).To(gomega.Equal(1))
		})

		ginkgo.It("should report active employees from the directory", func() {
			_, err := directory.Create(ctx, model.Employee{EmployeeID: "E1", Name: "A"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = directory.Create(ctx, model.Employee{EmployeeID: "E2", Name: "B"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// A fix flips E1 to active; E2 stays inactive.
			_, err = locations.Record(ctx, RecordFixInput{EmployeeID: "E1", Latitude: f64(1), Longitude: f64(2)})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			stats, err := service.DailyStats(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stats.ActiveEmployees).To(gomega.Equal(1))
		})
	})

	ginkgo.Describe("End to end", func() {
		ginkgo.It("should run the create, fix, clock-in, clock-out scenario", func() {
			_, err := directory.Create(ctx, model.Employee{EmployeeID: "E1", Name: "A"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = locations.Record(ctx, RecordFixInput{EmployeeID: "E1", Latitude: f64(12.9), Longitude: f64(77.6)})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ClockIn(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, clockedIn, err := service.Status(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(clockedIn).To(gomega.BeTrue())

			_, err = service.ClockOut(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			record, clockedIn, err := service.Status(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(clockedIn).To(gomega.BeFalse())
			gomega.Expect(record.ClockInTime).ToNot(gomega.BeZero())
			gomega.Expect(record.ClockOutTime).ToNot(gomega.BeNil())
		})
	})
})
