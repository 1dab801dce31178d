package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/robotics"
)

// robotAPI is the subset of robotics.Client that RobotService requires.
type robotAPI interface {
	ListProducts(ctx context.Context) ([]domain.Robot, error)
	AddProduct(ctx context.Context, r *domain.Robot, files []robotics.File) error
	EditProduct(ctx context.Context, r *domain.Robot, files []robotics.File) error
	DeleteProduct(ctx context.Context, id string) error
	FetchMedia(ctx context.Context, path string) (io.ReadCloser, string, error)
}

// Robot categories accepted by List.
const (
	CategoryAll  = "all"
	CategoryBuy  = "buy"
	CategoryRent = "rent"
)

// RobotInput is the submitted robot form. Numbers stay as text until validated.
type RobotInput struct {
	Name               string   `schema:"name"`
	Rating             string   `schema:"rating"`
	ShortDescription   string   `schema:"short_description"`
	Description        string   `schema:"description"`
	Price              string   `schema:"price"`
	DiscountPrice      string   `schema:"discount_price"`
	Discount           string   `schema:"discount"`
	Highlights         string   `schema:"highlights"`
	UsedPlaces         string   `schema:"product_used_places"`
	Sensors            string   `schema:"sensors"`
	Dimensions         string   `schema:"dimensions"`
	MaxSpeed           string   `schema:"max_speed"`
	BatteryLife        string   `schema:"battery_life"`
	ChargingTime       string   `schema:"charging_time"`
	Connectivity       string   `schema:"connectivity"`
	Material           string   `schema:"material"`
	Model              string   `schema:"model"`
	Screen             string   `schema:"screen"`
	Camera             string   `schema:"camera"`
	BodyColour         string   `schema:"body_colour"`
	RAM                string   `schema:"ram"`
	StandByTime        string   `schema:"stand_by_time"`
	HeadPitchAngle     string   `schema:"head_pitch_angle"`
	System             string   `schema:"system"`
	Manufacturer       string   `schema:"manufacturer"`
	NavigationAccuracy string   `schema:"navigation_accuracy"`
	Weight             string   `schema:"weight"`
	BatteryType        string   `schema:"battery_type"`
	Category           string   `schema:"category"`
	KeepImages         []string `schema:"keep_image"`

	Images   []robotics.File `schema:"-"`
	Brochure *robotics.File  `schema:"-"`
}

// RobotInputFrom fills a form from an existing robot, keeping all its images.
func RobotInputFrom(r *domain.Robot) RobotInput {
	in := RobotInput{
		Name:               r.Name,
		Rating:             formatNumber(r.Rating),
		ShortDescription:   r.ShortDescription,
		Description:        r.Description,
		Price:              strconv.FormatFloat(r.Price, 'f', -1, 64),
		DiscountPrice:      formatNumber(r.DiscountPrice),
		Discount:           r.Discount,
		Highlights:         strings.Join(r.Highlights, ", "),
		UsedPlaces:         strings.Join(r.UsedPlaces, ", "),
		Sensors:            strings.Join(r.Sensors, ", "),
		Dimensions:         r.Dimensions,
		MaxSpeed:           r.MaxSpeed,
		BatteryLife:        r.BatteryLife,
		ChargingTime:       r.ChargingTime,
		Connectivity:       r.Connectivity,
		Material:           r.Material,
		Model:              r.Model,
		Screen:             r.Screen,
		Camera:             r.Camera,
		BodyColour:         r.BodyColour,
		RAM:                r.RAM,
		StandByTime:        r.StandByTime,
		HeadPitchAngle:     r.HeadPitchAngle,
		System:             r.System,
		Manufacturer:       r.Manufacturer,
		NavigationAccuracy: r.NavigationAccuracy,
		Weight:             r.Weight,
		BatteryType:        r.BatteryType,
		Category:           r.Category,
	}
	for _, img := range r.Images {
		in.KeepImages = append(in.KeepImages, img.ID)
	}
	return in
}

// Keeps reports whether the image id is marked to be retained.
func (in RobotInput) Keeps(id string) bool {
	for _, k := range in.KeepImages {
		if k == id {
			return true
		}
	}
	return false
}

type RobotService struct {
	api      robotAPI
	activity *Recorder
	logger   *slog.Logger
}

func NewRobotService(api robotAPI, activity *Recorder, logger *slog.Logger) *RobotService {
	return &RobotService{api: api, activity: activity, logger: logger}
}

// List returns robots whose name contains query, restricted to category
// unless it is "all" or blank.
func (s *RobotService) List(ctx context.Context, query, category string) ([]domain.Robot, error) {
	robots, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list robots: %w", err)
	}

	category = strings.ToLower(strings.TrimSpace(category))
	return filter(robots, func(r *domain.Robot) bool {
		if category != "" && category != CategoryAll && strings.ToLower(r.Category) != category {
			return false
		}
		return matchesAny(query, r.Name)
	}), nil
}

func (s *RobotService) Get(ctx context.Context, id string) (*domain.Robot, error) {
	robots, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list robots: %w", err)
	}
	return find(robots, id, func(r *domain.Robot) string { return r.ID })
}

func (s *RobotService) Create(ctx context.Context, in RobotInput) error {
	robot, errs := buildRobot(in)
	if len(in.Images) == 0 {
		errs["images"] = "At least one image is required."
	}
	if err := errs.orNil(); err != nil {
		return err
	}

	if err := s.api.AddProduct(ctx, robot, robotFiles(in, nil)); err != nil {
		return fmt.Errorf("failed to add robot: %w", err)
	}

	s.logger.Info("robot created", "name", robot.Name)
	s.activity.Record(ctx, "robot", "create", robot.Name)
	return nil
}

// Update replaces a robot. Retained images are downloaded and re-sent under
// their own id, as the upstream expects a full image set on every edit.
func (s *RobotService) Update(ctx context.Context, id string, in RobotInput) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	var kept []domain.RobotImage
	for _, img := range current.Images {
		if in.Keeps(img.ID) {
			kept = append(kept, img)
		}
	}

	robot, errs := buildRobot(in)
	if len(in.Images)+len(kept) == 0 {
		errs["images"] = "At least one image is required."
	}
	if err := errs.orNil(); err != nil {
		return err
	}
	robot.ID = id

	retained, err := s.fetchRetained(ctx, kept)
	if err != nil {
		return err
	}

	if err := s.api.EditProduct(ctx, robot, robotFiles(in, retained)); err != nil {
		return fmt.Errorf("failed to edit robot: %w", err)
	}

	s.logger.Info("robot updated", "id", id, "kept_images", len(kept), "new_images", len(in.Images))
	s.activity.Record(ctx, "robot", "update", robot.Name)
	return nil
}

func (s *RobotService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete robot: %w", err)
	}

	s.logger.Info("robot deleted", "id", id)
	s.activity.Record(ctx, "robot", "delete", "#"+id)
	return nil
}

func (s *RobotService) fetchRetained(ctx context.Context, kept []domain.RobotImage) ([]robotics.File, error) {
	files := make([]robotics.File, 0, len(kept))
	for i, img := range kept {
		body, contentType, err := s.api.FetchMedia(ctx, img.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image %s: %w", img.ID, err)
		}
		data, err := io.ReadAll(body)
		if closeErr := body.Close(); closeErr != nil {
			s.logger.Warn("failed to close image body", "id", img.ID, "error", closeErr)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", img.ID, err)
		}
		if contentType == "" {
			contentType = "image/jpeg"
		}
		files = append(files, robotics.File{
			Field:       img.ID,
			Name:        fmt.Sprintf("image_%s_%d.jpg", img.ID, i),
			ContentType: contentType,
			Data:        data,
		})
	}
	return files, nil
}

func robotFiles(in RobotInput, retained []robotics.File) []robotics.File {
	files := make([]robotics.File, 0, len(in.Images)+len(retained)+1)
	for _, f := range in.Images {
		f.Field = "image"
		files = append(files, f)
	}
	files = append(files, retained...)
	if in.Brochure != nil {
		b := *in.Brochure
		b.Field = "brochure"
		files = append(files, b)
	}
	return files
}

// buildRobot validates the text fields and converts them. Images are checked
// by the caller.
func buildRobot(in RobotInput) (*domain.Robot, ValidationErrors) {
	errs := ValidationErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Name is required."
	}
	if strings.TrimSpace(in.ShortDescription) == "" {
		errs["short_description"] = "Short description is required."
	}
	if strings.TrimSpace(in.Description) == "" {
		errs["description"] = "Description is required."
	}

	price, err := parseNumber(in.Price)
	if strings.TrimSpace(in.Price) == "" || err != nil {
		errs["price"] = "Valid price is required."
	}

	discountPrice, err := parseNumber(in.DiscountPrice)
	if err != nil {
		errs["discount_price"] = "Discount price must be a number."
	}

	rating, err := parseNumber(in.Rating)
	if err != nil || rating < 0 || rating > 5 {
		errs["rating"] = "Rating must be between 0 and 5."
	}

	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category != "" && category != CategoryBuy && category != CategoryRent {
		errs["category"] = "Category must be buy or rent."
	}

	return &domain.Robot{
		Name:               strings.TrimSpace(in.Name),
		Rating:             rating,
		ShortDescription:   strings.TrimSpace(in.ShortDescription),
		Description:        strings.TrimSpace(in.Description),
		Price:              price,
		DiscountPrice:      discountPrice,
		Discount:           strings.TrimSpace(in.Discount),
		Highlights:         robotics.SplitList(in.Highlights),
		UsedPlaces:         robotics.SplitList(in.UsedPlaces),
		Sensors:            robotics.SplitList(in.Sensors),
		Dimensions:         in.Dimensions,
		MaxSpeed:           in.MaxSpeed,
		BatteryLife:        in.BatteryLife,
		ChargingTime:       in.ChargingTime,
		Connectivity:       in.Connectivity,
		Material:           in.Material,
		Model:              in.Model,
		Screen:             in.Screen,
		Camera:             in.Camera,
		BodyColour:         in.BodyColour,
		RAM:                in.RAM,
		StandByTime:        in.StandByTime,
		HeadPitchAngle:     in.HeadPitchAngle,
		System:             in.System,
		Manufacturer:       in.Manufacturer,
		NavigationAccuracy: in.NavigationAccuracy,
		Weight:             in.Weight,
		BatteryType:        in.BatteryType,
		Category:           category,
	}, errs
}

// parseNumber parses s as a float. Blank reads as zero.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func formatNumber(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
