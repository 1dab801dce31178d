package domain

import "time"

type User struct {
	ID    string
	Email string
	Name  string
}

type RobotImage struct {
	ID  string
	URL string
}

// Robot is a product listing. Category is "buy" or "rent".
type Robot struct {
	ID                 string
	Name               string
	Rating             float64
	ShortDescription   string
	Description        string
	Price              float64
	DiscountPrice      float64
	Discount           string
	Highlights         []string
	UsedPlaces         []string
	Sensors            []string
	Dimensions         string
	MaxSpeed           string
	BatteryLife        string
	ChargingTime       string
	Connectivity       string
	Material           string
	Model              string
	Screen             string
	Camera             string
	BodyColour         string
	RAM                string
	StandByTime        string
	HeadPitchAngle     string
	System             string
	Manufacturer       string
	NavigationAccuracy string
	Weight             string
	BatteryType        string
	BrochureURL        string
	Category           string
	Images             []RobotImage
}

// CoverImage returns the first image URL or "".
func (r *Robot) CoverImage() string {
	if len(r.Images) == 0 {
		return ""
	}
	return r.Images[0].URL
}

type PostKind string

const (
	PostKindBlog            PostKind = "blog"
	PostKindBehindTheScenes PostKind = "behind_the_scenes"
)

type Post struct {
	ID             string
	Kind           PostKind
	Title          string
	Description    string
	ClientName     string
	ClientLocation string
	CategoryTags   string
	ImageURL       string
	FileType       string
	Date           string
	Status         string
}

// IsVideo reports whether the attached file is a video rather than an image.
func (p *Post) IsVideo() bool {
	return p.FileType == "video" || p.FileType == "mp4"
}

type Banner struct {
	ID        string
	Page      string
	MediaType string
	URL       string
}

type Testimonial struct {
	ID          string
	Name        string
	Company     string
	Rating      float64
	Description string
	ImageURL    string
}

type Contact struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Message   string
	Date      string
}

func (c *Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type RentQuote struct {
	ID       string
	Name     string
	Email    string
	Mobile   string
	Quantity string
	Purpose  string
	Message  string
	Date     string
}

// Quote is a purchase request, shown to admins as an order.
type Quote struct {
	ID            string
	Name          string
	Email         string
	Mobile        string
	Amount        float64
	Quantity      string
	Status        string
	PaymentStatus string
	Date          string
	Address       string
	StreetArea    string
	HouseLandmark string
	City          string
	Country       string
}

func (q *Quote) Location() string {
	switch {
	case q.City == "":
		return q.Country
	case q.Country == "":
		return q.City
	default:
		return q.City + ", " + q.Country
	}
}

type Project struct {
	ID               string
	Name             string
	Intro            string
	PreVersion       string
	PreDimension     string
	PreFunctionality string
	NewVersion       string
	NewDimension     string
	NewFunctionality string
	CurrentProgress  string
	ProjectProcess   string
	Service          string
	OurRobotInclude  string
	Requirement      string
	Feature          string
	ImageURL         string
}

type Activity struct {
	ID        string
	Actor     string
	Entity    string
	Action    string
	Subject   string
	CreatedAt time.Time
}

// PasswordReset is the progress of the forgot-password wizard.
type PasswordReset struct {
	Email       string
	OTPSent     bool
	OTPVerified bool
}

type ResetStep string

const (
	ResetStepEmail ResetStep = "email"
	ResetStepOTP   ResetStep = "otp"
	ResetStepReset ResetStep = "reset"
)

// Step derives the wizard screen from the recorded progress.
func (p PasswordReset) Step() ResetStep {
	switch {
	case p.OTPVerified:
		return ResetStepReset
	case p.OTPSent:
		return ResetStepOTP
	default:
		return ResetStepEmail
	}
}
