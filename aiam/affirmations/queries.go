package affirmations

const affirmationColumns = `
	id, user_id, affirmation, category_id, category_title, image_url,
	audio_urls, is_favorite, voice_clone_charged, created_at, updated_at
`

const (
	queryCreate = `
		INSERT INTO affirmations (id, user_id, affirmation, category_id, category_title)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + affirmationColumns

	queryGet = `
		SELECT ` + affirmationColumns + `
		FROM affirmations
		WHERE id = $1 AND user_id = $2
	`

	queryList = `
		SELECT ` + affirmationColumns + `
		FROM affirmations
		WHERE user_id = $1
			AND ($2::boolean = FALSE OR is_favorite)
			AND ($3::text = '' OR category_id = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	queryCount = `
		SELECT COUNT(*)
		FROM affirmations
		WHERE user_id = $1
			AND ($2::boolean = FALSE OR is_favorite)
			AND ($3::text = '' OR category_id = $3)
	`

	queryListCategories = `
		SELECT DISTINCT category_id, category_title
		FROM affirmations
		WHERE user_id = $1
		ORDER BY category_title
	`

	queryToggleFavorite = `
		UPDATE affirmations
		SET is_favorite = NOT is_favorite, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + affirmationColumns

	// an affirmation holds at most one image
	querySetImageIfEmpty = `
		UPDATE affirmations
		SET image_url = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND image_url IS NULL
		RETURNING ` + affirmationColumns

	queryGetAudio = `
		SELECT audio_urls ->> $2::text
		FROM affirmations
		WHERE id = $1
	`

	// first writer wins: an existing voice entry is never replaced
	queryPutAudioIfAbsent = `
		UPDATE affirmations
		SET audio_urls = jsonb_set(audio_urls, ARRAY[$2::text], to_jsonb($3::text), true),
			updated_at = NOW()
		WHERE id = $1 AND audio_urls ->> $2::text IS NULL
		RETURNING audio_urls ->> $2::text
	`

	queryClaimVoiceCharge = `
		UPDATE affirmations
		SET voice_clone_charged = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND voice_clone_charged = FALSE
		RETURNING id
	`

	queryReleaseVoiceCharge = `
		UPDATE affirmations
		SET voice_clone_charged = FALSE
		WHERE id = $1 AND user_id = $2
	`

	// only used to undo a record whose debit was refused
	queryDelete = `
		DELETE FROM affirmations
		WHERE id = $1 AND user_id = $2
	`
)
