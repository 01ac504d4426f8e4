package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"climate_edu_backend/internal/model"
	"climate_edu_backend/internal/repository"
	"climate_edu_backend/internal/util"
	"climate_edu_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	QuizRepo     *repository.QuizRepository
	Storage      *StorageService
	Gen          *GenerationService
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	quizRepo *repository.QuizRepository,
	storage *StorageService,
	gen *GenerationService,
) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		QuizRepo:     quizRepo,
		Storage:      storage,
		Gen:          gen,
	}
}

type CourseRequest struct {
	Title            string `json:"title" binding:"required"`
	Topic            string `json:"topic" binding:"required"`
	Description      string `json:"description"`
	Difficulty       string `json:"difficulty"`
	GenerateMaterial bool   `json:"generateMaterial"`
}

func (s *CourseService) CreateCourse(creatorID uint, req CourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Topic:       req.Topic,
		Description: req.Description,
		Difficulty:  req.Difficulty,
		CreatorID:   creatorID,
	}
	if course.Difficulty == "" {
		course.Difficulty = "beginner"
	}

	if req.GenerateMaterial {
		material, err := s.Gen.GenerateMaterial(req.Topic, course.Difficulty)
		if err != nil {
			return nil, err
		}
		course.Material = material
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

type CourseUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Difficulty  *string `json:"difficulty"`
	Material    *string `json:"material"`
	IsPublished *bool   `json:"isPublished"`
}

func (s *CourseService) UpdateCourse(courseID string, req CourseUpdateRequest) (*model.Course, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Difficulty != nil {
		course.Difficulty = *req.Difficulty
	}
	if req.Material != nil {
		course.Material = *req.Material
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// RegenerateMaterial replaces the course's learning material with a fresh
// generation for the same topic.
func (s *CourseService) RegenerateMaterial(courseID string) (*model.Course, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}

	material, err := s.Gen.GenerateMaterial(course.Topic, course.Difficulty)
	if err != nil {
		return nil, err
	}

	course.Material = material
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes the course and its quizzes. Progress rows and
// attempts are kept for history.
func (s *CourseService) DeleteCourse(courseID string) error {
	if _, err := s.findCourse(courseID); err != nil {
		return err
	}
	if err := s.QuizRepo.DeleteByCourse(courseID); err != nil {
		return err
	}
	return s.CourseRepo.Delete(courseID)
}

func (s *CourseService) GetCourse(courseID string) (*model.Course, error) {
	return s.findCourse(courseID)
}

func (s *CourseService) ListCourses(page, limit int, publishedOnly bool, topic string) ([]model.Course, int64, error) {
	return s.CourseRepo.List(page, limit, publishedOnly, topic)
}

func (s *CourseService) ListByCreator(creatorID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByCreator(creatorID)
}

// Enroll creates the learner's progress row. Enrolling twice is harmless.
func (s *CourseService) Enroll(userID uint, courseID string) (*model.CourseProgress, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseUnpublished
	}
	return s.ProgressRepo.Enroll(userID, courseID)
}

func (s *CourseService) GetProgress(userID uint, courseID string) (*model.CourseProgress, error) {
	progress, err := s.ProgressRepo.Find(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	return progress, nil
}

// UpdateProgress records reading progress. Values at or past 100 are
// capped at 99 here: completion is owned by the quiz-submission flow so
// the completion timestamp and badge stay consistent.
func (s *CourseService) UpdateProgress(userID uint, courseID string, percent float64) error {
	if percent < 0 {
		percent = 0
	}
	if percent >= 100 {
		percent = 99
	}

	progress, err := s.GetProgress(userID, courseID)
	if err != nil {
		return err
	}
	if progress.Percent >= percent {
		return nil
	}
	return s.ProgressRepo.UpdatePercent(userID, courseID, percent)
}

func (s *CourseService) ListEnrollments(userID uint) ([]model.CourseProgress, error) {
	return s.ProgressRepo.ListByUser(userID)
}

func (s *CourseService) findCourse(courseID string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// UploadMaterial stores a teacher-uploaded supporting file. Uploads are
// MIME-sniffed; videos additionally get a first-frame thumbnail.
func (s *CourseService) UploadMaterial(ctx context.Context, uploaderID uint, courseID, title string, file *multipart.FileHeader) (*model.CourseMaterial, error) {
	if _, err := s.findCourse(courseID); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	allowedTypes := []string{util.MimePDF, util.MimeVideo, util.MimeImage, "text/plain"}
	mimeType, err := util.ValidateMimeType(src, allowedTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrValidation, err)
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if util.IsVideo(mimeType) && !videoExtAllowed(ext) {
		return nil, fmt.Errorf("%w: unsupported video extension %q", util.ErrValidation, ext)
	}
	objectName := fmt.Sprintf("materials/%s/%s%s", courseID, model.GenerateUUID(), ext)

	fileURL, err := s.Storage.Upload(ctx, objectName, src, file.Size, mimeType)
	if err != nil {
		return nil, err
	}

	material := &model.CourseMaterial{
		CourseID:    courseID,
		UploaderID:  uploaderID,
		Title:       title,
		FileURL:     fileURL,
		ContentType: mimeType,
		SizeBytes:   file.Size,
	}

	switch {
	case util.IsVideo(mimeType):
		if thumbURL, info, err := s.processVideo(ctx, file, objectName); err != nil {
			logger.Log.Warn("video processing failed", zap.Error(err), zap.String("file", file.Filename))
		} else {
			material.ThumbnailURL = thumbURL
			material.DurationSec = info.Duration
		}
	case util.IsImage(mimeType):
		// Image materials are their own preview.
		material.ThumbnailURL = fileURL
	}

	if err := s.CourseRepo.CreateMaterial(material); err != nil {
		return nil, err
	}
	return material, nil
}

func videoExtAllowed(ext string) bool {
	for _, allowed := range util.AllowedVideoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// processVideo spools the upload to a temp file, probes it, grabs a frame
// with ffmpeg, and stores the thumbnail next to the video.
func (s *CourseService) processVideo(ctx context.Context, file *multipart.FileHeader, objectName string) (string, *util.VideoInfo, error) {
	src, err := file.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	tmpDir := os.TempDir()
	videoPath := filepath.Join(tmpDir, fmt.Sprintf("upload-%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename)))
	out, err := os.Create(videoPath)
	if err != nil {
		return "", nil, err
	}
	if _, err := out.ReadFrom(src); err != nil {
		out.Close()
		os.Remove(videoPath)
		return "", nil, err
	}
	out.Close()
	defer os.Remove(videoPath)

	info, err := util.GetVideoInfo(videoPath)
	if err != nil {
		return "", nil, err
	}

	thumbPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".jpg"
	if err := util.GenerateThumbnail(videoPath, thumbPath, "00:00:01"); err != nil {
		return "", nil, err
	}
	defer os.Remove(thumbPath)

	thumbObject := strings.TrimSuffix(objectName, filepath.Ext(objectName)) + "_thumb.jpg"
	thumbURL, err := s.Storage.UploadFile(ctx, thumbObject, thumbPath, "image/jpeg")
	if err != nil {
		return "", nil, err
	}
	return thumbURL, info, nil
}

func (s *CourseService) ListMaterials(courseID string) ([]model.CourseMaterial, error) {
	return s.CourseRepo.ListMaterials(courseID)
}

func (s *CourseService) DeleteMaterial(materialID string) error {
	return s.CourseRepo.DeleteMaterial(materialID)
}
