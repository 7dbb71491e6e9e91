package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/seekernothing/next-homes/config"
	"github.com/seekernothing/next-homes/models"
	"github.com/seekernothing/next-homes/repository"
	"github.com/seekernothing/next-homes/utils"
)

type UserController struct {
	collection *mongo.Collection
	favourites *repository.FavouriteRepository
}

func NewUserController() *UserController {
	collectionName := os.Getenv("MONGODB_COLLECTION_USERS")
	if collectionName == "" {
		collectionName = "users"
	}
	favouritesName := os.Getenv("MONGODB_COLLECTION_FAVOURITES")
	if favouritesName == "" {
		favouritesName = "favourites"
	}
	collection := config.GetCollection(collectionName)

	// Unique index backstop for the email-uniqueness invariant; the
	// pre-insert check alone can race concurrent registrations.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("failed to ensure unique email index: %v", err)
	}

	return &UserController{
		collection: collection,
		favourites: repository.NewFavouriteRepository(config.GetCollection(favouritesName)),
	}
}

// emailTaken reports whether a user already holds the email. A lookup
// failure is surfaced rather than treated as "no user", so a transient store
// error cannot let a duplicate registration through.
func (uc *UserController) emailTaken(ctx context.Context, email string) (bool, error) {
	err := uc.collection.FindOne(ctx, bson.M{"email": email}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (uc *UserController) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if !utils.IsValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": true, "message": "Invalid email address"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": true, "message": "Password must contain at least 6 characters"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": true, "message": "Name must contain a value"})
	}

	taken, err := uc.emailTaken(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to check existing user"})
	}
	if taken {
		return c.JSON(http.StatusConflict, map[string]string{"error": "User with this email already exists"})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     req.Email,
		Password:  hashedPassword,
		Name:      req.Name,
		Admin:     isAdminEmail(req.Email),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := uc.collection.InsertOne(ctx, user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Admin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	user.Password = ""

	return c.JSON(http.StatusCreated, models.LoginResponse{
		Token: token,
		User:  user,
	})
}

func (uc *UserController) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	var user models.User
	err := uc.collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}

	if err := utils.CheckPassword(user.Password, req.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Admin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	user.Password = ""

	return c.JSON(http.StatusOK, models.LoginResponse{
		Token: token,
		User:  user,
	})
}

func (uc *UserController) GetProfile(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	var user models.User
	err := uc.collection.FindOne(c.Request().Context(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	user.Password = ""

	return c.JSON(http.StatusOK, user)
}

// UpdatePassword changes the caller's password after verifying the current
// one. Accounts created without a password (no hash stored) cannot use this.
func (uc *UserController) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(primitive.ObjectID)

	var req models.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	var user models.User
	if err := uc.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	if user.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": true, "message": "Password change is not available for this account"})
	}
	if err := utils.CheckPassword(user.Password, req.CurrentPassword); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{"error": true, "message": "Current password is incorrect"})
	}
	if len(req.NewPassword) < 6 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": true, "message": "Password must contain at least 6 characters"})
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	_, err = uc.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"password":   hashedPassword,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": true, "message": "Failed to update password"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// DeleteAccount removes the user record and, best-effort, their favourites.
func (uc *UserController) DeleteAccount(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(primitive.ObjectID)

	if _, err := uc.collection.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"error": true, "message": "Failed to delete user"})
	}

	if err := uc.favourites.RemoveAllForUser(context.WithoutCancel(ctx), userID); err != nil {
		log.Printf("failed to remove favourites for user %s: %v", userID.Hex(), err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}

// isAdminEmail grants the admin claim to addresses listed in ADMIN_EMAILS,
// the stand-in for setting a custom claim out-of-band.
func isAdminEmail(email string) bool {
	for _, admin := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		if admin != "" && strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}
