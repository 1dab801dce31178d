package robotics

import (
	"context"

	"github.com/vbonduro/roboadmin/internal/domain"
)

type productImageRecord struct {
	ID    text `json:"pi_id"`
	Image text `json:"pi_image"`
}

type productRecord struct {
	ID                 text                 `json:"p_id"`
	Name               text                 `json:"p_name"`
	Rating             number               `json:"p_rating"`
	ShortDescription   text                 `json:"p_short_descrption"`
	Description        text                 `json:"p_descrption"`
	Price              number               `json:"p_price"`
	DiscountPrice      number               `json:"p_discount_price"`
	Discount           text                 `json:"p_discount"`
	Highlights         text                 `json:"p_highlights"`
	UsedPlaces         text                 `json:"p_product_used_places"`
	Sensors            text                 `json:"p_sensors"`
	Dimensions         text                 `json:"p_dimensions"`
	MaxSpeed           text                 `json:"p_max_speed"`
	BatteryLife        text                 `json:"p_battery_life"`
	ChargingTime       text                 `json:"p_charging_time"`
	Connectivity       text                 `json:"p_connectivity"`
	Material           text                 `json:"p_material"`
	Model              text                 `json:"p_model"`
	Screen             text                 `json:"p_screen"`
	Camera             text                 `json:"p_camera"`
	BodyColour         text                 `json:"p_body_colour"`
	RAM                text                 `json:"p_ram"`
	StandByTime        text                 `json:"p_stand_by_time"`
	HeadPitchAngle     text                 `json:"p_head_pitch_angle"`
	System             text                 `json:"p_system"`
	Manufacturer       text                 `json:"p_manufacturer"`
	NavigationAccuracy text                 `json:"p_navigation_accuracy"`
	Weight             text                 `json:"p_weight"`
	BatteryType        text                 `json:"p_battery_type"`
	Brochure           text                 `json:"p_brochure"`
	BuyRent            text                 `json:"p_buy_rent"`
	Images             []productImageRecord `json:"productimages"`
}

func (c *Client) toRobot(rec productRecord) domain.Robot {
	r := domain.Robot{
		ID:                 rec.ID.String(),
		Name:               rec.Name.String(),
		Rating:             float64(rec.Rating),
		ShortDescription:   rec.ShortDescription.String(),
		Description:        rec.Description.String(),
		Price:              float64(rec.Price),
		DiscountPrice:      float64(rec.DiscountPrice),
		Discount:           rec.Discount.String(),
		Highlights:         SplitList(rec.Highlights.String()),
		UsedPlaces:         SplitList(rec.UsedPlaces.String()),
		Sensors:            SplitList(rec.Sensors.String()),
		Dimensions:         rec.Dimensions.String(),
		MaxSpeed:           rec.MaxSpeed.String(),
		BatteryLife:        rec.BatteryLife.String(),
		ChargingTime:       rec.ChargingTime.String(),
		Connectivity:       rec.Connectivity.String(),
		Material:           rec.Material.String(),
		Model:              rec.Model.String(),
		Screen:             rec.Screen.String(),
		Camera:             rec.Camera.String(),
		BodyColour:         rec.BodyColour.String(),
		RAM:                rec.RAM.String(),
		StandByTime:        rec.StandByTime.String(),
		HeadPitchAngle:     rec.HeadPitchAngle.String(),
		System:             rec.System.String(),
		Manufacturer:       rec.Manufacturer.String(),
		NavigationAccuracy: rec.NavigationAccuracy.String(),
		Weight:             rec.Weight.String(),
		BatteryType:        rec.BatteryType.String(),
		BrochureURL:        c.MediaURL(rec.Brochure.String()),
		Category:           rec.BuyRent.String(),
	}
	for _, img := range rec.Images {
		r.Images = append(r.Images, domain.RobotImage{ID: img.ID.String(), URL: c.MediaURL(img.Image.String())})
	}
	return r
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Robot, error) {
	var recs []productRecord
	if err := c.list(ctx, "list/product", nil, &recs); err != nil {
		return nil, err
	}

	robots := make([]domain.Robot, 0, len(recs))
	for _, rec := range recs {
		robots = append(robots, c.toRobot(rec))
	}
	return robots, nil
}

func productFields(r *domain.Robot) map[string]string {
	return map[string]string{
		"name":                r.Name,
		"rating":              formatFloat(r.Rating),
		"short_description":   r.ShortDescription,
		"description":         r.Description,
		"price":               formatFloat(r.Price),
		"discount_price":      formatFloat(r.DiscountPrice),
		"discount":            r.Discount,
		"highlights":          joinList(r.Highlights),
		"product_used_places": joinList(r.UsedPlaces),
		"sensors":             joinList(r.Sensors),
		"dimensions":          r.Dimensions,
		"max_speed":           r.MaxSpeed,
		"battery_life":        r.BatteryLife,
		"charging_time":       r.ChargingTime,
		"connectivity":        r.Connectivity,
		"material":            r.Material,
		"buy_rent":            r.Category,
		"rob_model":           r.Model,
		"screen":              r.Screen,
		"camera":              r.Camera,
		"body_colour":         r.BodyColour,
		"mb_ram":              r.RAM,
		"stand_by_time":       r.StandByTime,
		"head_pitch_angle":    r.HeadPitchAngle,
		"system":              r.System,
		"manufacturer":        r.Manufacturer,
		"navigation_accuracy": r.NavigationAccuracy,
		"weight":              r.Weight,
		"battery_type":        r.BatteryType,
	}
}

// AddProduct creates a robot. New images go under the "image" field and an
// optional brochure under "brochure".
func (c *Client) AddProduct(ctx context.Context, r *domain.Robot, files []File) error {
	return c.send(ctx, "add/product", productFields(r), files)
}

// EditProduct replaces a robot. Retained images must be re-attached with the
// image id as the field name.
func (c *Client) EditProduct(ctx context.Context, r *domain.Robot, files []File) error {
	fields := productFields(r)
	fields["p_id"] = r.ID
	return c.send(ctx, "edit/product", fields, files)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.call(ctx, "delete/product", map[string]string{"p_id": id})
	return err
}
