package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rofergon/seadrop/internal/authz"
	"github.com/rofergon/seadrop/internal/collection"
	"github.com/rofergon/seadrop/internal/drop"
	"github.com/rofergon/seadrop/internal/identity"
)

const callerContextKey = "seadrop_caller"

var (
	errMissingTokenManager  = errors.New("token manager dependency required")
	errMissingManager       = errors.New("collection manager dependency required")
	errMissingStore         = errors.New("drop store dependency required")
	errInvalidAuthorization = errors.New("authorization header missing or invalid")
)

// CallerTokenValidator maps bearer tokens back to caller addresses.
type CallerTokenValidator interface {
	ValidateToken(token string) (identity.Address, error)
}

// Dependencies wires the HTTP layer. The registry itself lives in the
// collection manager and the drop store; handlers only adapt identities and
// JSON.
type Dependencies struct {
	TokenManager CallerTokenValidator
	Manager      *collection.Manager
	Store        *drop.Store
	Events       *EventDispatcher
	Logger       *zap.Logger
}

// NewHTTPHandler builds the gin router for the registry service.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.TokenManager == nil {
		return nil, errMissingTokenManager
	}
	if deps.Manager == nil {
		return nil, errMissingManager
	}
	if deps.Store == nil {
		return nil, errMissingStore
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	events := deps.Events
	if events == nil {
		events = NewEventDispatcher()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		tokens:  deps.TokenManager,
		manager: deps.Manager,
		store:   deps.Store,
		events:  events,
		logger:  logger,
	}

	router.GET("/collections", handler.handleListCollections)
	router.GET("/collections/:address", handler.handleGetCollection)
	router.GET("/collections/:address/public-drop", handler.handleGetPublicDrop)
	router.GET("/collections/:address/creator-payout", handler.handleGetCreatorPayout)
	router.GET("/collections/:address/allow-list", handler.handleGetAllowList)
	router.GET("/collections/:address/drop-uri", handler.handleGetDropURI)
	router.GET("/collections/:address/fee-recipients", handler.handleListFeeRecipients)
	router.GET("/collections/:address/payers", handler.handleListPayers)
	router.GET("/collections/:address/signers", handler.handleListSigners)
	router.GET("/collections/:address/signers/:member", handler.handleGetSignerParams)
	router.GET("/collections/:address/gated-tokens", handler.handleListGatedTokens)
	router.GET("/collections/:address/gated-stages/:member", handler.handleGetGatedStage)
	router.GET("/collections/:address/changes", handler.handleListChanges)

	protected := router.Group("/")
	protected.Use(handler.authorizeRequest)
	protected.POST("/collections", handler.handleCreateCollection)
	protected.POST("/collections/:address/mint", handler.handleMint)
	protected.PUT("/collections/:address/base-uri", handler.handleSetBaseURI)
	protected.PUT("/collections/:address/contract-uri", handler.handleSetContractURI)
	protected.PUT("/collections/:address/max-supply", handler.handleSetMaxSupply)
	protected.PUT("/collections/:address/delegates/:member", handler.handleSetDelegate)
	protected.PUT("/collections/:address/public-drop", handler.handleUpdatePublicDrop)
	protected.PUT("/collections/:address/creator-payout", handler.handleUpdateCreatorPayout)
	protected.PUT("/collections/:address/allow-list", handler.handleUpdateAllowList)
	protected.PUT("/collections/:address/drop-uri", handler.handleUpdateDropURI)
	protected.PUT("/collections/:address/fee-recipients/:member", handler.handleUpdateFeeRecipient)
	protected.PUT("/collections/:address/payers/:member", handler.handleUpdatePayer)
	protected.PUT("/collections/:address/gated-stages/:member", handler.handleUpdateGatedStage)
	protected.PUT("/collections/:address/signers/:member", handler.handleUpdateSignerParams)

	return router, nil
}

type httpHandler struct {
	tokens  CallerTokenValidator
	manager *collection.Manager
	store   *drop.Store
	events  *EventDispatcher
	logger  *zap.Logger
}

func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	caller, err := h.tokens.ValidateToken(token)
	if err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(callerContextKey, caller)
	c.Next()
}

func (h *httpHandler) caller(c *gin.Context) (identity.Address, bool) {
	value, ok := c.Get(callerContextKey)
	if !ok {
		return identity.Zero, false
	}
	caller, ok := value.(identity.Address)
	if !ok || caller.IsZero() {
		return identity.Zero, false
	}
	return caller, true
}

func (h *httpHandler) pathAddress(c *gin.Context, param string) (identity.Address, bool) {
	address, err := identity.NewAddress(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_address"})
		return identity.Zero, false
	}
	return address, true
}

func (h *httpHandler) hostedCollection(c *gin.Context) (*collection.Collection, bool) {
	address, ok := h.pathAddress(c, "address")
	if !ok {
		return nil, false
	}
	hosted, err := h.manager.Collection(address)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "collection_not_found"})
		return nil, false
	}
	return hosted, true
}

func (h *httpHandler) respondMutationError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
	case errors.Is(err, authz.ErrDelegateNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": "delegate_not_allowed"})
	case errors.Is(err, authz.ErrSupplyExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "supply_exceeded"})
	case errors.Is(err, collection.ErrCollectionExists):
		c.JSON(http.StatusConflict, gin.H{"error": "collection_exists"})
	case errors.Is(err, identity.ErrInvalidAddress), errors.Is(err, drop.ErrInvalidMerkleRoot):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
	default:
		h.logger.Error("registry mutation failed", zap.String("operation", operation), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mutation_failed"})
	}
}

func (h *httpHandler) publish(tenant identity.Address, eventType, operation string) {
	h.events.Publish(RegistryEvent{
		Tenant:    tenant.String(),
		EventType: eventType,
		Operation: operation,
		Timestamp: time.Now().UTC(),
	})
}

type maxSupplyPayload struct {
	Limited bool   `json:"limited"`
	Cap     uint64 `json:"cap"`
}

type collectionPayload struct {
	Address      string           `json:"address"`
	Owner        string           `json:"owner"`
	Name         string           `json:"name"`
	Symbol       string           `json:"symbol"`
	BaseURI      string           `json:"base_uri"`
	ContractURI  string           `json:"contract_uri"`
	MaxSupply    maxSupplyPayload `json:"max_supply"`
	TotalMinted  uint64           `json:"total_minted"`
	Delegates    []string         `json:"delegates"`
	LogicVersion string           `json:"logic_version"`
}

func collectionResponse(hosted *collection.Collection) collectionPayload {
	supply := hosted.MaxSupply()
	delegates := hosted.Delegates()
	encoded := make([]string, 0, len(delegates))
	for _, delegate := range delegates {
		encoded = append(encoded, delegate.String())
	}
	return collectionPayload{
		Address:      hosted.Identity().String(),
		Owner:        hosted.Owner().String(),
		Name:         hosted.Name(),
		Symbol:       hosted.Symbol(),
		BaseURI:      hosted.BaseURI(),
		ContractURI:  hosted.ContractURI(),
		MaxSupply:    maxSupplyPayload{Limited: supply.Limited, Cap: supply.Cap},
		TotalMinted:  hosted.TotalMinted(),
		Delegates:    encoded,
		LogicVersion: hosted.LogicVersion(),
	}
}

func (h *httpHandler) handleListCollections(c *gin.Context) {
	identities := h.manager.Identities()
	encoded := make([]string, 0, len(identities))
	for _, id := range identities {
		encoded = append(encoded, id.String())
	}
	c.JSON(http.StatusOK, gin.H{"collections": encoded})
}

func (h *httpHandler) handleGetCollection(c *gin.Context) {
	hosted, ok := h.hostedCollection(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, collectionResponse(hosted))
}

type createCollectionPayload struct {
	Address   string            `json:"address"`
	Name      string            `json:"name"`
	Symbol    string            `json:"symbol"`
	MaxSupply *maxSupplyPayload `json:"max_supply"`
}

func (h *httpHandler) handleCreateCollection(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var request createCollectionPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	address, err := identity.NewAddress(request.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_address"})
		return
	}

	supply := collection.UnlimitedSupply()
	if request.MaxSupply != nil && request.MaxSupply.Limited {
		supply = collection.LimitedSupply(request.MaxSupply.Cap)
	}
	created, err := h.manager.Create(c.Request.Context(), collection.CreateRequest{
		Identity:  address,
		Owner:     caller,
		Name:      request.Name,
		Symbol:    request.Symbol,
		MaxSupply: supply,
	})
	if err != nil {
		h.respondMutationError(c, "create_collection", err)
		return
	}

	h.publish(address, EventConfigChanged, "create_collection")
	c.JSON(http.StatusCreated, collectionResponse(created))
}

type mintPayload struct {
	Recipient string `json:"recipient"`
	Quantity  uint64 `json:"quantity"`
}

func (h *httpHandler) handleMint(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	hosted, ok := h.hostedCollection(c)
	if !ok {
		return
	}
	var request mintPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	recipient, err := identity.NewAddress(request.Recipient)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_address"})
		return
	}
	if request.Quantity == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if err := hosted.Mint(c.Request.Context(), caller, recipient, request.Quantity); err != nil {
		h.respondMutationError(c, "mint", err)
		return
	}

	h.publish(hosted.Identity(), EventMinted, "mint")
	c.JSON(http.StatusOK, gin.H{
		"total_minted": hosted.TotalMinted(),
		"balance":      hosted.BalanceOf(recipient),
	})
}

type uriPayload struct {
	URI string `json:"uri"`
}

func (h *httpHandler) handleSetBaseURI(c *gin.Context) {
	h.ownerMutation(c, "set_base_uri", func(caller identity.Address, hosted *collection.Collection) error {
		var request uriPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		return hosted.SetBaseURI(c.Request.Context(), caller, request.URI)
	})
}

func (h *httpHandler) handleSetContractURI(c *gin.Context) {
	h.ownerMutation(c, "set_contract_uri", func(caller identity.Address, hosted *collection.Collection) error {
		var request uriPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		return hosted.SetContractURI(c.Request.Context(), caller, request.URI)
	})
}

func (h *httpHandler) handleSetMaxSupply(c *gin.Context) {
	h.ownerMutation(c, "set_max_supply", func(caller identity.Address, hosted *collection.Collection) error {
		var request maxSupplyPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		supply := collection.UnlimitedSupply()
		if request.Limited {
			supply = collection.LimitedSupply(request.Cap)
		}
		return hosted.SetMaxSupply(c.Request.Context(), caller, supply)
	})
}

type allowedPayload struct {
	Allowed bool `json:"allowed"`
}

func (h *httpHandler) handleSetDelegate(c *gin.Context) {
	h.ownerMutation(c, "set_allowed_delegate", func(caller identity.Address, hosted *collection.Collection) error {
		member, err := identity.NewAddress(c.Param("member"))
		if err != nil {
			return err
		}
		var request allowedPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		return hosted.SetAllowedDelegate(c.Request.Context(), caller, member, request.Allowed)
	})
}

type publicDropPayload struct {
	MintPrice             uint64 `json:"mint_price"`
	MaxMintablePerWallet  uint32 `json:"max_mintable_per_wallet"`
	StartTimeSeconds      int64  `json:"start_time_s"`
	EndTimeSeconds        int64  `json:"end_time_s"`
	FeeBps                uint16 `json:"fee_bps"`
	RestrictFeeRecipients bool   `json:"restrict_fee_recipients"`
}

func (h *httpHandler) handleUpdatePublicDrop(c *gin.Context) {
	h.ownerMutation(c, "update_public_drop", func(caller identity.Address, hosted *collection.Collection) error {
		var request publicDropPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		return hosted.UpdatePublicDrop(c.Request.Context(), caller, drop.PublicDropConfig{
			MintPrice:             request.MintPrice,
			MaxMintablePerWallet:  request.MaxMintablePerWallet,
			StartTimeSeconds:      request.StartTimeSeconds,
			EndTimeSeconds:        request.EndTimeSeconds,
			FeeBps:                request.FeeBps,
			RestrictFeeRecipients: request.RestrictFeeRecipients,
		})
	})
}

type creatorPayoutPayload struct {
	Payout string `json:"payout"`
}

func (h *httpHandler) handleUpdateCreatorPayout(c *gin.Context) {
	h.ownerMutation(c, "update_creator_payout", func(caller identity.Address, hosted *collection.Collection) error {
		var request creatorPayoutPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		payout, err := identity.NewAddress(request.Payout)
		if err != nil {
			return err
		}
		return hosted.UpdateCreatorPayout(c.Request.Context(), caller, payout)
	})
}

type allowListPayload struct {
	MerkleRoot    string   `json:"merkle_root"`
	URI           string   `json:"uri"`
	PublicKeyURIs []string `json:"public_key_uris"`
}

func (h *httpHandler) handleUpdateAllowList(c *gin.Context) {
	h.ownerMutation(c, "update_allow_list", func(caller identity.Address, hosted *collection.Collection) error {
		var request allowListPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		root, err := drop.NewMerkleRoot(request.MerkleRoot)
		if err != nil {
			return err
		}
		return hosted.UpdateAllowList(c.Request.Context(), caller, drop.AllowListDescriptor{
			MerkleRoot:        root,
			URI:               request.URI,
			PublicKeyURICount: len(request.PublicKeyURIs),
		})
	})
}

func (h *httpHandler) handleUpdateDropURI(c *gin.Context) {
	h.ownerMutation(c, "update_drop_uri", func(caller identity.Address, hosted *collection.Collection) error {
		var request uriPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		return hosted.UpdateDropURI(c.Request.Context(), caller, request.URI)
	})
}

func (h *httpHandler) handleUpdateFeeRecipient(c *gin.Context) {
	h.ownerMutation(c, "update_allowed_fee_recipient", func(caller identity.Address, hosted *collection.Collection) error {
		member, err := identity.NewAddress(c.Param("member"))
		if err != nil {
			return err
		}
		var request allowedPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		return hosted.UpdateAllowedFeeRecipient(c.Request.Context(), caller, member, request.Allowed)
	})
}

func (h *httpHandler) handleUpdatePayer(c *gin.Context) {
	h.ownerMutation(c, "update_payer", func(caller identity.Address, hosted *collection.Collection) error {
		member, err := identity.NewAddress(c.Param("member"))
		if err != nil {
			return err
		}
		var request allowedPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		return hosted.UpdatePayer(c.Request.Context(), caller, member, request.Allowed)
	})
}

func (h *httpHandler) handleUpdateGatedStage(c *gin.Context) {
	h.ownerMutation(c, "update_token_gated_drop", func(caller identity.Address, hosted *collection.Collection) error {
		gatingToken, err := identity.NewAddress(c.Param("member"))
		if err != nil {
			return err
		}
		var request publicDropPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		return hosted.UpdateTokenGatedDrop(c.Request.Context(), caller, gatingToken, drop.TokenGatedDropStage{
			MintPrice:             request.MintPrice,
			MaxMintablePerWallet:  request.MaxMintablePerWallet,
			StartTimeSeconds:      request.StartTimeSeconds,
			EndTimeSeconds:        request.EndTimeSeconds,
			FeeBps:                request.FeeBps,
			RestrictFeeRecipients: request.RestrictFeeRecipients,
		})
	})
}

type signerParamsPayload struct {
	MinMintPrice            uint64 `json:"min_mint_price"`
	MaxMaxMintablePerWallet uint32 `json:"max_max_mintable_per_wallet"`
	MinStartTimeSeconds     int64  `json:"min_start_time_s"`
	MaxEndTimeSeconds       int64  `json:"max_end_time_s"`
	MinFeeBps               uint16 `json:"min_fee_bps"`
	MaxFeeBps               uint16 `json:"max_fee_bps"`
}

func (h *httpHandler) handleUpdateSignerParams(c *gin.Context) {
	h.ownerMutation(c, "update_signed_mint_validation_params", func(caller identity.Address, hosted *collection.Collection) error {
		signer, err := identity.NewAddress(c.Param("member"))
		if err != nil {
			return err
		}
		var request signerParamsPayload
		if err := c.ShouldBindJSON(&request); err != nil {
			return errBadPayload
		}
		return hosted.UpdateSignedMintValidationParams(c.Request.Context(), caller, signer, drop.SignedMintValidationParams{
			MinMintPrice:            request.MinMintPrice,
			MaxMaxMintablePerWallet: request.MaxMaxMintablePerWallet,
			MinStartTimeSeconds:     request.MinStartTimeSeconds,
			MaxEndTimeSeconds:       request.MaxEndTimeSeconds,
			MinFeeBps:               request.MinFeeBps,
			MaxFeeBps:               request.MaxFeeBps,
		})
	})
}

var errBadPayload = errors.New("invalid request payload")

func (h *httpHandler) ownerMutation(c *gin.Context, operation string, mutate func(identity.Address, *collection.Collection) error) {
	caller, ok := h.caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	hosted, ok := h.hostedCollection(c)
	if !ok {
		return
	}
	if err := mutate(caller, hosted); err != nil {
		if errors.Is(err, errBadPayload) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		h.respondMutationError(c, operation, err)
		return
	}
	h.publish(hosted.Identity(), EventConfigChanged, operation)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *httpHandler) handleGetPublicDrop(c *gin.Context) {
	address, ok := h.pathAddress(c, "address")
	if !ok {
		return
	}
	config, set := h.store.PublicDrop(address)
	c.JSON(http.StatusOK, gin.H{
		"set": set,
		"public_drop": publicDropPayload{
			MintPrice:             config.MintPrice,
			MaxMintablePerWallet:  config.MaxMintablePerWallet,
			StartTimeSeconds:      config.StartTimeSeconds,
			EndTimeSeconds:        config.EndTimeSeconds,
			FeeBps:                config.FeeBps,
			RestrictFeeRecipients: config.RestrictFeeRecipients,
		},
	})
}

func (h *httpHandler) handleGetCreatorPayout(c *gin.Context) {
	address, ok := h.pathAddress(c, "address")
	if !ok {
		return
	}
	payout, set := h.store.CreatorPayout(address)
	c.JSON(http.StatusOK, gin.H{"set": set, "payout": payout.String()})
}

func (h *httpHandler) handleGetAllowList(c *gin.Context) {
	address, ok := h.pathAddress(c, "address")
	if !ok {
		return
	}
	descriptor, set := h.store.AllowList(address)
	c.JSON(http.StatusOK, gin.H{
		"set":                  set,
		"merkle_root":          descriptor.MerkleRoot.String(),
		"uri":                  descriptor.URI,
		"public_key_uri_count": descriptor.PublicKeyURICount,
	})
}

func (h *httpHandler) handleGetDropURI(c *gin.Context) {
	address, ok := h.pathAddress(c, "address")
	if !ok {
		return
	}
	uri, set := h.store.DropURI(address)
	c.JSON(http.StatusOK, gin.H{"set": set, "uri": uri})
}

func (h *httpHandler) handleListFeeRecipients(c *gin.Context) {
	h.listMembers(c, h.store.FeeRecipients)
}

func (h *httpHandler) handleListPayers(c *gin.Context) {
	h.listMembers(c, h.store.Payers)
}

func (h *httpHandler) handleListSigners(c *gin.Context) {
	h.listMembers(c, h.store.Signers)
}

func (h *httpHandler) handleListGatedTokens(c *gin.Context) {
	h.listMembers(c, h.store.GatedTokens)
}

func (h *httpHandler) listMembers(c *gin.Context, list func(identity.Address) []identity.Address) {
	address, ok := h.pathAddress(c, "address")
	if !ok {
		return
	}
	members := list(address)
	encoded := make([]string, 0, len(members))
	for _, member := range members {
		encoded = append(encoded, member.String())
	}
	c.JSON(http.StatusOK, gin.H{"members": encoded})
}

func (h *httpHandler) handleGetSignerParams(c *gin.Context) {
	address, ok := h.pathAddress(c, "address")
	if !ok {
		return
	}
	signer, err := identity.NewAddress(c.Param("member"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_address"})
		return
	}
	params, set := h.store.SignerParams(address, signer)
	c.JSON(http.StatusOK, gin.H{
		"set": set,
		"params": signerParamsPayload{
			MinMintPrice:            params.MinMintPrice,
			MaxMaxMintablePerWallet: params.MaxMaxMintablePerWallet,
			MinStartTimeSeconds:     params.MinStartTimeSeconds,
			MaxEndTimeSeconds:       params.MaxEndTimeSeconds,
			MinFeeBps:               params.MinFeeBps,
			MaxFeeBps:               params.MaxFeeBps,
		},
	})
}

func (h *httpHandler) handleGetGatedStage(c *gin.Context) {
	address, ok := h.pathAddress(c, "address")
	if !ok {
		return
	}
	gatingToken, err := identity.NewAddress(c.Param("member"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_address"})
		return
	}
	stage, set := h.store.TokenGatedDrop(address, gatingToken)
	c.JSON(http.StatusOK, gin.H{
		"set": set,
		"stage": publicDropPayload{
			MintPrice:             stage.MintPrice,
			MaxMintablePerWallet:  stage.MaxMintablePerWallet,
			StartTimeSeconds:      stage.StartTimeSeconds,
			EndTimeSeconds:        stage.EndTimeSeconds,
			FeeBps:                stage.FeeBps,
			RestrictFeeRecipients: stage.RestrictFeeRecipients,
		},
	})
}

type changePayload struct {
	ChangeID         string `json:"change_id"`
	Operation        string `json:"op"`
	AppliedAtSeconds int64  `json:"applied_at_s"`
	Payload          string `json:"payload"`
}

func (h *httpHandler) handleListChanges(c *gin.Context) {
	address, ok := h.pathAddress(c, "address")
	if !ok {
		return
	}
	changes, err := h.store.Changes(c.Request.Context(), address)
	if err != nil {
		h.logger.Error("failed to list changes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query_failed"})
		return
	}
	encoded := make([]changePayload, 0, len(changes))
	for _, change := range changes {
		encoded = append(encoded, changePayload{
			ChangeID:         change.ChangeID,
			Operation:        change.Operation,
			AppliedAtSeconds: change.AppliedAtSeconds,
			Payload:          change.PayloadJSON,
		})
	}
	c.JSON(http.StatusOK, gin.H{"changes": encoded})
}
