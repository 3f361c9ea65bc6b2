package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackernest/hackernest/config"
	"github.com/hackernest/hackernest/hn"
	"github.com/hackernest/hackernest/models"
	"github.com/hackernest/hackernest/services"
	"github.com/hackernest/hackernest/utils"
)

// UserController handles registration, login, profiles, the follow graph,
// and bookmarks.
type UserController struct {
	db       *gorm.DB
	accounts *services.Accounts
	hn       *hn.Client
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB, accounts *services.Accounts, hnClient *hn.Client) *UserController {
	return &UserController{db: db, accounts: accounts, hn: hnClient}
}

// userRef is the compact identity used in follower/following listings.
type userRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Register creates a new account.
func (u *UserController) Register(ctx *gin.Context) {
	var req struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Username  string `json:"username" binding:"required,min=2,max=64"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		Role      string `json:"role"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	user, err := u.accounts.Register(services.RegisterInput{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Username:  strings.TrimSpace(req.Username),
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"message": "User created successfully",
		"user": gin.H{
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Login validates credentials and issues a JWT.
func (u *UserController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid request payload")
		return
	}

	user, err := u.accounts.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	cfg := config.Get()
	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, time.Duration(cfg.JWTExpireHours)*time.Hour)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"message":      "Login successful",
		"access_token": token,
		"role":         user.Role,
	})
}

// Logout revokes the presented token until its natural expiry.
func (u *UserController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusBadRequest, 40012, "missing bearer token")
		return
	}
	tokenString := strings.TrimSpace(parts[1])

	claims, err := utils.ParseToken(tokenString)
	if err == nil && claims.ExpiresAt != nil {
		utils.BlacklistToken(tokenString, claims.ExpiresAt.Time)
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the full private profile of the authenticated user.
func (u *UserController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	utils.Success(ctx, u.profilePayload(&user, false))
}

// UpdateProfile patches the authenticated user's profile.
func (u *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		FirstName  *string            `json:"firstName"`
		LastName   *string            `json:"lastName"`
		Username   *string            `json:"username"`
		Email      *string            `json:"email"`
		Bio        *string            `json:"bio"`
		Location   *string            `json:"location"`
		Website    *string            `json:"website"`
		Interests  *[]string          `json:"interests"`
		Twitter    *string            `json:"twitter"`
		GitHub     *string            `json:"github"`
		LinkedIn   *string            `json:"linkedin"`
		Visibility *models.Visibility `json:"visibility"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid request payload")
		return
	}

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		var cnt int64
		u.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, userID).Count(&cnt)
		if cnt > 0 {
			utils.Error(ctx, http.StatusBadRequest, 40014, "email already in use")
			return
		}
		user.Email = email
	}
	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		var cnt int64
		u.db.Model(&models.User{}).Where("username = ? AND id <> ?", name, userID).Count(&cnt)
		if cnt > 0 {
			utils.Error(ctx, http.StatusBadRequest, 40015, "username already in use")
			return
		}
		user.Username = name
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Bio != nil {
		user.Bio = utils.Sanitize(*req.Bio)
	}
	if req.Location != nil {
		user.Location = strings.TrimSpace(*req.Location)
	}
	if req.Website != nil {
		user.Website = strings.TrimSpace(*req.Website)
	}
	if req.Interests != nil {
		user.Interests = models.StringList(utils.UniqueStrings(*req.Interests))
	}
	if req.Twitter != nil {
		user.SocialTwitter = strings.TrimSpace(*req.Twitter)
	}
	if req.GitHub != nil {
		user.SocialGitHub = strings.TrimSpace(*req.GitHub)
	}
	if req.LinkedIn != nil {
		user.SocialLinkedIn = strings.TrimSpace(*req.LinkedIn)
	}
	if req.Visibility != nil {
		// Merge only the flags present in the payload.
		v := req.Visibility
		if v.Name != nil {
			user.ShowName = v.Name
		}
		if v.Bio != nil {
			user.ShowBio = v.Bio
		}
		if v.Location != nil {
			user.ShowLocation = v.Location
		}
		if v.Website != nil {
			user.ShowWebsite = v.Website
		}
		if v.Interests != nil {
			user.ShowInterests = v.Interests
		}
		if v.Social != nil {
			user.ShowSocial = v.Social
		}
	}

	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to update profile")
		return
	}

	utils.Success(ctx, u.profilePayload(&user, false))
}

// PublicProfile returns another user's profile with visibility flags applied.
func (u *UserController) PublicProfile(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40016, "invalid user id")
		return
	}

	var user models.User
	if err := u.db.First(&user, uint(id)).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	utils.Success(ctx, u.profilePayload(&user, true))
}

// Follow adds the authenticated user to the target's followers.
func (u *UserController) Follow(ctx *gin.Context) {
	u.setFollow(ctx, true)
}

// Unfollow removes the authenticated user from the target's followers.
func (u *UserController) Unfollow(ctx *gin.Context) {
	u.setFollow(ctx, false)
}

func (u *UserController) setFollow(ctx *gin.Context, follow bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	targetID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40016, "invalid user id")
		return
	}
	if uint(targetID) == userID {
		utils.Error(ctx, http.StatusBadRequest, 40017, "you cannot follow yourself")
		return
	}

	var me, target models.User
	if err := u.db.First(&me, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	if err := u.db.First(&target, uint(targetID)).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "target user not found")
		return
	}

	myID := strconv.FormatUint(uint64(me.ID), 10)
	theirID := strconv.FormatUint(uint64(target.ID), 10)
	if follow {
		me.Following = me.Following.Append(theirID)
		target.Followers = target.Followers.Append(myID)
	} else {
		me.Following = me.Following.Remove(theirID)
		target.Followers = target.Followers.Remove(myID)
	}

	if err := u.db.Save(&me).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to update follow state")
		return
	}
	if err := u.db.Save(&target).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to update follow state")
		return
	}

	utils.Success(ctx, gin.H{"following": follow})
}

// IsFollowing reports whether the authenticated user follows the target.
func (u *UserController) IsFollowing(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var me models.User
	if err := u.db.First(&me, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	utils.Success(ctx, gin.H{"isFollowing": me.Following.Contains(ctx.Param("id"))})
}

// Bookmarks returns the authenticated user's bookmarked item IDs.
func (u *UserController) Bookmarks(ctx *gin.Context) {
	userID, _ := getUserID(ctx)
	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"bookmarks": user.Bookmarks})
}

// AddBookmark bookmarks an item for the authenticated user.
func (u *UserController) AddBookmark(ctx *gin.Context) {
	u.setBookmark(ctx, true)
}

// RemoveBookmark drops an item from the user's bookmarks.
func (u *UserController) RemoveBookmark(ctx *gin.Context) {
	u.setBookmark(ctx, false)
}

func (u *UserController) setBookmark(ctx *gin.Context, add bool) {
	userID, _ := getUserID(ctx)
	itemID := ctx.Param("itemId")
	if itemID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40018, "item id required")
		return
	}

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	if add {
		user.Bookmarks = user.Bookmarks.Append(itemID)
	} else {
		user.Bookmarks = user.Bookmarks.Remove(itemID)
	}
	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to update bookmarks")
		return
	}
	utils.Success(ctx, gin.H{"bookmarks": user.Bookmarks})
}

// CheckUsername reports local username availability.
func (u *UserController) CheckUsername(ctx *gin.Context) {
	username := ctx.Param("username")
	taken, err := u.accounts.IsUsernameTaken(username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to check username")
		return
	}
	message := "Username is available"
	if taken {
		message = "Username already exists"
	}
	utils.Success(ctx, gin.H{"exists": taken, "message": message})
}

// CheckHNUsername checks availability against the external platform.
func (u *UserController) CheckHNUsername(ctx *gin.Context) {
	username := ctx.Param("username")
	exists, err := u.hn.UserExists(ctx.Request.Context(), username)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	message := "Username is available"
	if exists {
		message = "Username already exists"
	}
	utils.Success(ctx, gin.H{"exists": exists, "message": message})
}

// IDByUsername resolves a username to its numeric user ID.
func (u *UserController) IDByUsername(ctx *gin.Context) {
	var user models.User
	if err := u.db.Select("id", "username").Where("username = ?", ctx.Param("username")).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"id": user.ID, "username": user.Username})
}

// profilePayload shapes a profile response. When public is true the
// visibility flags hide fields the user opted out of sharing.
func (u *UserController) profilePayload(user *models.User, public bool) gin.H {
	hidden := func(flag *bool) bool { return public && flag != nil && !*flag }

	payload := gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"role":      user.Role,
		"followers": u.resolveRefs(user.Followers),
		"following": u.resolveRefs(user.Following),
		"createdAt": user.CreatedAt,
	}

	if !hidden(user.ShowName) {
		payload["firstName"] = user.FirstName
		payload["lastName"] = user.LastName
	}
	if !hidden(user.ShowBio) {
		payload["bio"] = user.Bio
	}
	if !hidden(user.ShowLocation) {
		payload["location"] = user.Location
	}
	if !hidden(user.ShowWebsite) {
		payload["website"] = user.Website
	}
	if !hidden(user.ShowInterests) {
		payload["interests"] = user.Interests
	}
	if !hidden(user.ShowSocial) {
		payload["social"] = user.SocialLinks()
	}

	if !public {
		payload["email"] = user.Email
		payload["visibility"] = user.VisibilityFlags()
		payload["isBlocked"] = user.IsBlocked
		payload["bookmarks"] = user.Bookmarks
		payload["updatedAt"] = user.UpdatedAt
	}
	return payload
}

// resolveRefs expands stored user ID strings into {id, username} pairs.
func (u *UserController) resolveRefs(ids models.StringList) []userRef {
	refs := []userRef{}
	if len(ids) == 0 {
		return refs
	}
	numeric := make([]uint, 0, len(ids))
	for _, s := range ids {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			numeric = append(numeric, uint(n))
		}
	}
	var users []models.User
	if err := u.db.Select("id", "username").Where("id IN ?", numeric).Find(&users).Error; err != nil {
		return refs
	}
	for _, usr := range users {
		refs = append(refs, userRef{ID: usr.ID, Username: usr.Username})
	}
	return refs
}
