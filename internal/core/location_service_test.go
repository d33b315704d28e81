package core

import (
	"context"

	"fieldtrack.service/internal/adapters/memstore"
	"fieldtrack.service/internal/core/model"
	"fieldtrack.service/internal/ports/store"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

const locationsTable = "locations"

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

var _ = ginkgo.Describe("LocationService", func() {
	var (
		ctx       context.Context
		directory *DirectoryService
		service   *LocationService
	)

	record := func(employeeID string, lat, lon float64, ts int64) model.LocationFix {
		fix, err := service.Record(ctx, RecordFixInput{
			EmployeeID: employeeID,
			Latitude:   f64(lat),
			Longitude:  f64(lon),
			Timestamp:  i64(ts),
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return fix
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		st := memstore.NewStore()
		directory = NewDirectoryService(st, employeesTable, PlaintextVerifier{})
		service = NewLocationService(st, locationsTable, directory)
	})

	ginkgo.Describe("Record", func() {
		ginkgo.It("should reject a fix without employee id or coordinates", func() {
			_, err := service.Record(ctx, RecordFixInput{Latitude: f64(12.9), Longitude: f64(77.6)})
			gomega.Expect(err).To(gomega.MatchError(ErrMissingFields))

			_, err = service.Record(ctx, RecordFixInput{EmployeeID: "E1", Longitude: f64(77.6)})
			gomega.Expect(err).To(gomega.MatchError(ErrMissingFields))

			_, err = service.Record(ctx, RecordFixInput{EmployeeID: "E1", Latitude: f64(12.9)})
			gomega.Expect(err).To(gomega.MatchError(ErrMissingFields))
		})

		ginkgo.It("should accept zero coordinates", func() {
			fix := record("E1", 0, 0, 1000)
			gomega.Expect(fix.Latitude).To(gomega.BeZero())
			gomega.Expect(fix.Longitude).To(gomega.BeZero())
		})

		ginkgo.It("should default speed and accuracy to 0 and battery to 100", func() {
			fix := record("E1", 12.9, 77.6, 1000)

			gomega.Expect(fix.Speed).To(gomega.BeZero())
			gomega.Expect(fix.Accuracy).To(gomega.BeZero())
			gomega.Expect(fix.Battery).To(gomega.Equal(float64(100)))
		})

		ginkgo.It("should derive the record key and date strings from the capture instant", func() {
			fix := record("E1", 12.9, 77.6, 1700000000000)

			gomega.Expect(fix.LocationID).To(gomega.Equal("E1_1700000000000"))
			gomega.Expect(fix.Date).To(gomega.MatchRegexp(`^\d{4}-\d{2}-\d{2}$`))
			gomega.Expect(fix.TimeOfDay).To(gomega.MatchRegexp(`^\d{2}:\d{2}:\d{2}$`))
		})

		ginkgo.It("should be immediately visible in the employee's history", func() {
			fix := record("E1", 12.9, 77.6, 1000)

			history, err := service.History(ctx, "E1", "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(history).To(gomega.ConsistOf(fix))
		})

		ginkgo.It("should stamp the owning employee's last-known location and activate it", func() {
			_, err := directory.Create(ctx, model.Employee{EmployeeID: "E1", Name: "A"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			record("E1", 12.9, 77.6, 1000)

			employee, err := directory.Get(ctx, "E1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(employee.LastLatitude).To(gomega.HaveValue(gomega.Equal(12.9)))
			gomega.Expect(employee.LastLongitude).To(gomega.HaveValue(gomega.Equal(77.6)))
			gomega.Expect(employee.Status).To(gomega.Equal(model.StatusEmployeeActive))
			gomega.Expect(employee.IsActive).To(gomega.BeTrue())
		})

		ginkgo.It("should still record the fix when the employee does not exist", func() {
			fix := record("unknown", 1.0, 2.0, 1000)
			gomega.Expect(fix.EmployeeID).To(gomega.Equal("unknown"))
		})
	})

	ginkgo.Describe("LatestPerEmployee", func() {
		ginkgo.It("should return one entry per employee with its newest fix, newest first", func() {
			record("E1", 1, 1, 100)
			record("E1", 2, 2, 300)
			record("E2", 3, 3, 200)
			record("E3", 4, 4, 50)
			record("E3", 5, 5, 40)

			latest, err := service.LatestPerEmployee(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(latest).To(gomega.HaveLen(3))

			gomega.Expect(latest[0].EmployeeID).To(gomega.Equal("E1"))
			gomega.Expect(latest[0].Timestamp).To(gomega.Equal(int64(300)))
			gomega.Expect(latest[1].EmployeeID).To(gomega.Equal("E2"))
			gomega.Expect(latest[2].EmployeeID).To(gomega.Equal("E3"))
			gomega.Expect(latest[2].Timestamp).To(gomega.Equal(int64(50)))
		})

		ginkgo.It("should break timestamp ties by the greater record id", func() {
			// Same employee cannot collide on (id, timestamp); ties only
			// happen across devices reporting in the same millisecond for
			// different employees, so exercise the comparator directly.
			a := record("E1", 1, 1, 100)
			err := service.store.Put(ctx, locationsTable,
				store.Key{Name: "locationId", Value: "E1_0000000100"},
				model.LocationFix{
					LocationID: "E1_0000000100", EmployeeID: "E1",
					Latitude: 9, Longitude: 9, Timestamp: 100,
				})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			latest, err := service.LatestPerEmployee(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(latest).To(gomega.HaveLen(1))
			gomega.Expect(latest[0].LocationID).To(gomega.Equal(a.LocationID))
		})
	})

	ginkgo.Describe("History views", func() {
		ginkgo.BeforeEach(func() {
			record("E1", 1, 1, 300)
			record("E1", 2, 2, 100)
			record("E1", 3, 3, 200)
			record("E2", 4, 4, 150)
		})

		ginkgo.It("should serve the path view oldest first", func() {
			history, err := service.History(ctx, "E1", "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(timestamps(history)).To(gomega.Equal([]int64{100, 200, 300}))
		})

		ginkgo.It("should serve the recent-activity view newest first", func() {
			recent, err := service.RecentActivity(ctx, "E1", "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(timestamps(recent)).To(gomega.Equal([]int64{300, 200, 100}))
		})

		ginkgo.It("should filter the range view by [start, end] inclusive", func() {
			fixes, err := service.HistoryRange(ctx, "E1", 100, 200)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(timestamps(fixes)).To(gomega.Equal([]int64{100, 200}))
		})

		ginkgo.It("should reject a history query without an employee id", func() {
			_, err := service.History(ctx, "", "")
			gomega.Expect(err).To(gomega.MatchError(ErrMissingFields))
		})
	})
})

func timestamps(fixes []model.LocationFix) []int64 {
	out := make([]int64, 0, len(fixes))
	for _, fix := range fixes {
		out = append(out, fix.Timestamp)
	}
	return out
}
