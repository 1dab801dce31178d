package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/logging"
	"github.com/vbonduro/roboadmin/internal/robotics"
)

func sampleRobots() []domain.Robot {
	return []domain.Robot{
		{ID: "1", Name: "D2 Delivery Robot", Category: "buy", Images: []domain.RobotImage{
			{ID: "11", URL: "https://media/uploads/a.png"},
			{ID: "12", URL: "https://media/uploads/b.png"},
		}},
		{ID: "2", Name: "Reception Bot", Category: "rent"},
		{ID: "3", Name: "Cleaning Robot", Category: "Rent"},
	}
}

func validRobotInput() RobotInput {
	return RobotInput{
		Name:             "D3",
		ShortDescription: "Short",
		Description:      "Long",
		Price:            "1500",
		Rating:           "4.5",
		Highlights:       " fast , , quiet",
		Category:         "buy",
		Images:           []robotics.File{*upload("new.png")},
	}
}

func TestRobotServiceList(t *testing.T) {
	svc := NewRobotService(&stubAPI{robots: sampleRobots()}, nil, logging.Discard())
	ctx := context.Background()

	tests := []struct {
		query, category string
		want            []string
	}{
		{"", "all", []string{"1", "2", "3"}},
		{"", "", []string{"1", "2", "3"}},
		{"robot", "all", []string{"1", "3"}},
		{"ROBOT", "rent", []string{"3"}},
		{"", "buy", []string{"1"}},
		{"nothing", "all", nil},
	}

	for _, tt := range tests {
		robots, err := svc.List(ctx, tt.query, tt.category)
		require.NoError(t, err)
		var ids []string
		for _, r := range robots {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, tt.want, ids, "query=%q category=%q", tt.query, tt.category)
	}
}

func TestRobotServiceGet(t *testing.T) {
	svc := NewRobotService(&stubAPI{robots: sampleRobots()}, nil, logging.Discard())

	r, err := svc.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Reception Bot", r.Name)

	_, err = svc.Get(context.Background(), "99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRobotServiceCreate(t *testing.T) {
	api := &stubAPI{}
	recorder, activity := newTestRecorder(t)
	svc := NewRobotService(api, recorder, logging.Discard())

	in := validRobotInput()
	in.Brochure = &robotics.File{Name: "d3.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}
	require.NoError(t, svc.Create(actorCtx(), in))

	require.NotNil(t, api.robot)
	assert.Equal(t, 1500.0, api.robot.Price)
	assert.Equal(t, 4.5, api.robot.Rating)
	assert.Equal(t, []string{"fast", "quiet"}, api.robot.Highlights)
	require.Len(t, api.files, 2)
	assert.Equal(t, "image", api.files[0].Field)
	assert.Equal(t, "brochure", api.files[1].Field)

	entries, err := activity.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "admin@fortune.ae", entries[0].Actor)
	assert.Equal(t, "robot", entries[0].Entity)
	assert.Equal(t, "create", entries[0].Action)
	assert.Equal(t, "D3", entries[0].Subject)
}

func TestRobotServiceCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*RobotInput)
		field string
	}{
		{"name", func(in *RobotInput) { in.Name = " " }, "name"},
		{"short description", func(in *RobotInput) { in.ShortDescription = "" }, "short_description"},
		{"description", func(in *RobotInput) { in.Description = "" }, "description"},
		{"missing price", func(in *RobotInput) { in.Price = "" }, "price"},
		{"bad price", func(in *RobotInput) { in.Price = "abc" }, "price"},
		{"bad discount price", func(in *RobotInput) { in.DiscountPrice = "cheap" }, "discount_price"},
		{"rating too high", func(in *RobotInput) { in.Rating = "6" }, "rating"},
		{"rating negative", func(in *RobotInput) { in.Rating = "-1" }, "rating"},
		{"rating not a number", func(in *RobotInput) { in.Rating = "good" }, "rating"},
		{"no images", func(in *RobotInput) { in.Images = nil }, "images"},
		{"bad category", func(in *RobotInput) { in.Category = "lease" }, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubAPI{}
			svc := NewRobotService(api, nil, logging.Discard())
			in := validRobotInput()
			tt.edit(&in)

			err := svc.Create(context.Background(), in)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, AsValidation(err), tt.field)
			assert.Nil(t, api.robot)
		})
	}
}

func TestRobotServiceUpdateRetainsImages(t *testing.T) {
	api := &stubAPI{
		robots: sampleRobots(),
		media:  map[string]string{"https://media/uploads/b.png": "b-bytes"},
	}
	svc := NewRobotService(api, nil, logging.Discard())

	in := validRobotInput()
	in.Images = nil
	in.KeepImages = []string{"12", "999"}

	require.NoError(t, svc.Update(context.Background(), "1", in))

	assert.Equal(t, "1", api.robot.ID)
	require.Len(t, api.files, 1)
	assert.Equal(t, "12", api.files[0].Field)
	assert.Equal(t, "image_12_0.jpg", api.files[0].Name)
	assert.Equal(t, []byte("b-bytes"), api.files[0].Data)
	assert.Contains(t, api.calls, "fetch https://media/uploads/b.png")
}

func TestRobotServiceUpdateNeedsAnImage(t *testing.T) {
	api := &stubAPI{robots: sampleRobots()}
	svc := NewRobotService(api, nil, logging.Discard())

	in := validRobotInput()
	in.Images = nil
	in.KeepImages = nil

	err := svc.Update(context.Background(), "1", in)
	assert.Equal(t, "At least one image is required.", AsValidation(err)["images"])
}

func TestRobotServiceUpdateUnknown(t *testing.T) {
	svc := NewRobotService(&stubAPI{robots: sampleRobots()}, nil, logging.Discard())

	err := svc.Update(context.Background(), "404", validRobotInput())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRobotServiceDelete(t *testing.T) {
	api := &stubAPI{}
	svc := NewRobotService(api, nil, logging.Discard())

	require.NoError(t, svc.Delete(context.Background(), "4"))
	assert.Equal(t, []string{"delete product 4"}, api.calls)
}

func TestRobotServiceDeleteFailure(t *testing.T) {
	recorder, activity := newTestRecorder(t)
	svc := NewRobotService(&stubAPI{err: errors.New("boom")}, recorder, logging.Discard())

	require.Error(t, svc.Delete(actorCtx(), "4"))

	entries, err := activity.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRobotInputFrom(t *testing.T) {
	r := sampleRobots()[0]
	r.Price = 1200
	r.Sensors = []string{"lidar", "camera"}

	in := RobotInputFrom(&r)
	assert.Equal(t, "1200", in.Price)
	assert.Equal(t, "lidar, camera", in.Sensors)
	assert.Equal(t, []string{"11", "12"}, in.KeepImages)
	assert.True(t, in.Keeps("12"))
	assert.False(t, in.Keeps("13"))
}

func TestRobotServiceUpdateFreeRobot(t *testing.T) {
	api := &stubAPI{
		robots: sampleRobots(),
		media: map[string]string{
			"https://media/uploads/a.png": "a-bytes",
			"https://media/uploads/b.png": "b-bytes",
		},
	}
	svc := NewRobotService(api, nil, logging.Discard())

	robot := sampleRobots()[0]
	in := RobotInputFrom(&robot)
	assert.Equal(t, "0", in.Price)
	in.ShortDescription = "Short"
	in.Description = "Long"

	require.NoError(t, svc.Update(context.Background(), "1", in))
	require.NotNil(t, api.robot)
	assert.Equal(t, 0.0, api.robot.Price)
}
