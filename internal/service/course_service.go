package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aastu-sis/registration-api/internal/models"
	appErrors "github.com/aastu-sis/registration-api/pkg/errors"
)

type courseCatalog interface {
	ListByYearAndDepartment(ctx context.Context, academicYear int, department, semester string) ([]models.Course, error)
}

// CourseService serves the course catalog students pick from when building
// a slip. The catalog changes rarely, so listings are cached.
type CourseService struct {
	courses  courseCatalog
	students studentDirectory
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses courseCatalog, students studentDirectory, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, students: students, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// List returns catalog courses for the year and department, optionally
// narrowed to one semester.
func (s *CourseService) List(ctx context.Context, academicYear int, department, semester string) ([]models.Course, error) {
	if academicYear < 1 || academicYear > 5 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "academic year must be between 1 and 5")
	}
	if department == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department is required")
	}

	cacheKey := fmt.Sprintf("courses:%d:%s:%s", academicYear, department, semester)
	var cached []models.Course
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	courses, err := s.courses.ListByYearAndDepartment(ctx, academicYear, department, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	if err := s.cache.Set(ctx, cacheKey, courses, s.cacheTTL); err != nil {
		s.logger.Debug("course cache set failed", zap.String("key", cacheKey), zap.Error(err))
	}
	return courses, nil
}

// ListForStudent resolves the student's department and current academic
// year, then lists the matching catalog.
func (s *CourseService) ListForStudent(ctx context.Context, studentID, semester string) ([]models.Course, error) {
	student, err := s.students.FindByStudentID(ctx, studentID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	year := AcademicYear(student.EnrollmentYear, time.Now().UTC())
	return s.List(ctx, year, student.Department, semester)
}
