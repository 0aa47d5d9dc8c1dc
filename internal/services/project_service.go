package services

import (
	"context"

	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/internal/repositories"
)

type ProjectInput struct {
	Title *string `form:"title" json:"title" validate:"omitempty,min=1,max=200"`
	Image *Upload `form:"-" json:"-"`
	Video *Upload `form:"-" json:"-"`
}

type ProjectService interface {
	CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	UpdateProject(ctx context.Context, id int64, in ProjectInput, partial bool) (*models.Project, error)
	DeleteProject(ctx context.Context, id int64) error
	ListProjects(ctx context.Context, limit, offset int) ([]*models.Project, error)
}

type projectService struct {
	repo  repositories.ProjectRepository
	media *MediaStore
}

func NewProjectService(repo repositories.ProjectRepository, media *MediaStore) ProjectService {
	return &projectService{repo: repo, media: media}
}

func (s *projectService) withURLs(ctx context.Context, p *models.Project) *models.Project {
	p.ImageURL, p.VideoURL = nil, nil
	if p.Image != nil {
		if u := s.media.URL(ctx, *p.Image); u != "" {
			p.ImageURL = &u
		}
	}
	if p.Video != nil {
		if u := s.media.URL(ctx, *p.Video); u != "" {
			p.VideoURL = &u
		}
	}
	return p
}

// upload stores image/video first so a failed upload leaves the row untouched.
func (s *projectService) upload(ctx context.Context, in ProjectInput) (image, video *string, err error) {
	if in.Image != nil {
		key, err := s.media.Save(ctx, "projects", in.Image)
		if err != nil {
			return nil, nil, err
		}
		image = &key
	}
	if in.Video != nil {
		key, err := s.media.Save(ctx, "projects/videos", in.Video)
		if err != nil {
			if image != nil {
				s.media.Remove(ctx, *image)
			}
			return nil, nil, err
		}
		video = &key
	}
	return image, video, nil
}

func (s *projectService) CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	if in.Title == nil {
		return nil, common.NewValidationError("title", "This field is required.")
	}
	image, video, err := s.upload(ctx, in)
	if err != nil {
		return nil, err
	}
	project := &models.Project{Title: *in.Title, Image: image, Video: video}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return s.withURLs(ctx, project), nil
}

func (s *projectService) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withURLs(ctx, project), nil
}

func (s *projectService) UpdateProject(ctx context.Context, id int64, in ProjectInput, partial bool) (*models.Project, error) {
	if !partial && in.Title == nil {
		return nil, common.NewValidationError("title", "This field is required.")
	}
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	image, video, err := s.upload(ctx, in)
	if err != nil {
		return nil, err
	}

	var replaced []*string
	assign(&project.Title, in.Title)
	if image != nil {
		replaced = append(replaced, project.Image)
		project.Image = image
	}
	if video != nil {
		replaced = append(replaced, project.Video)
		project.Video = video
	}
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	for _, key := range replaced {
		if key != nil {
			s.media.Remove(ctx, *key)
		}
	}
	return s.withURLs(ctx, project), nil
}

func (s *projectService) DeleteProject(ctx context.Context, id int64) error {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	for _, key := range []*string{project.Image, project.Video} {
		if key != nil {
			s.media.Remove(ctx, *key)
		}
	}
	return nil
}

func (s *projectService) ListProjects(ctx context.Context, limit, offset int) ([]*models.Project, error) {
	projects, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		s.withURLs(ctx, p)
	}
	return projects, nil
}
