package detect

type annotationInfo struct {
	category string
	hint     string
}

var knownAnnotations = map[string]annotationInfo{
	// spring web
	"RestController":   {"spring-web", "Use MockMvc for HTTP testing, verify JSON responses"},
	"Controller":       {"spring-web", "Use MockMvc, test view resolution and model attributes"},
	"RequestMapping":   {"spring-web", "Test the mapped URL path and HTTP method"},
	"GetMapping":       {"spring-web", "Test GET endpoint with MockMvc, verify response body"},
	"PostMapping":      {"spring-web", "Test POST endpoint, verify request body parsing and 201 status"},
	"PutMapping":       {"spring-web", "Test PUT endpoint, verify update behavior"},
	"DeleteMapping":    {"spring-web", "Test DELETE endpoint, verify 204 or 200 status"},
	"PathVariable":     {"spring-web", "Test with valid/invalid path variables"},
	"RequestParam":     {"spring-web", "Test with present/missing/invalid query parameters"},
	"RequestBody":      {"spring-web", "Test with valid/invalid/null request body JSON"},
	"ResponseStatus":   {"spring-web", "Verify the annotated HTTP status code is returned"},
	"ExceptionHandler": {"spring-web", "Test that exceptions produce correct error responses"},
	"CrossOrigin":      {"spring-web", "Verify CORS headers in response"},

	// spring core
	"Service":       {"spring-core", "Unit test with mocked dependencies"},
	"Component":     {"spring-core", "Unit test with mocked dependencies"},
	"Repository":    {"spring-core", "Use @DataJpaTest with embedded DB"},
	"Configuration": {"spring-core", "Test bean creation and conditional loading"},
	"Bean":          {"spring-core", "Verify bean is created with correct properties"},
	"Autowired":     {"spring-core", "Use @Mock and @InjectMocks for dependency injection in tests"},
	"Value":         {"spring-core", "Test with ReflectionTestUtils.setField for injected values"},
	"Qualifier":     {"spring-core", "Ensure correct bean is injected when multiple candidates exist"},

	"Transactional": {"transaction", "Test rollback on exception, verify transaction boundaries. Use @Transactional in test to auto-rollback"},
	"Cacheable":     {"caching", "Test that repeated calls return cached result, verify cache key"},
	"CacheEvict":    {"caching", "Test that cache is cleared after method call"},
	"CachePut":      {"caching", "Test that cache is updated with new value"},

	// bean validation
	"Valid":    {"validation", "Test with invalid objects to trigger MethodArgumentNotValidException"},
	"NotNull":  {"validation", "Test with null value, expect ConstraintViolationException"},
	"NotBlank": {"validation", "Test with blank/empty string"},
	"NotEmpty": {"validation", "Test with empty collection or string"},
	"Size":     {"validation", "Test with values below min and above max size"},
	"Min":      {"validation", "Test with value below minimum"},
	"Max":      {"validation", "Test with value above maximum"},
	"Email":    {"validation", "Test with invalid email formats"},
	"Pattern":  {"validation", "Test with strings that do/don't match the regex pattern"},
	"Positive": {"validation", "Test with zero and negative values"},
	"Future":   {"validation", "Test with past dates"},
	"Past":     {"validation", "Test with future dates"},

	// jpa
	"Entity":         {"jpa", "Test entity lifecycle, equals/hashCode, validation constraints"},
	"Table":          {"jpa", "Verify table mapping in integration tests"},
	"Id":             {"jpa", "Test ID generation strategy"},
	"GeneratedValue": {"jpa", "Verify ID is auto-generated on persist"},
	"Column":         {"jpa", "Test column constraints (nullable, unique, length)"},
	"OneToMany":      {"jpa", "Test relationship cascading and orphan removal"},
	"ManyToOne":      {"jpa", "Test foreign key relationship and lazy/eager loading"},
	"ManyToMany":     {"jpa", "Test join table, add/remove from collection"},
	"OneToOne":       {"jpa", "Test bidirectional relationship consistency"},

	// lombok
	"Data":                    {"lombok", "Lombok generates getters/setters/equals/hashCode/toString, test them"},
	"Builder":                 {"lombok", "Use builder pattern in test setup for clean object creation"},
	"AllArgsConstructor":      {"lombok", "Use all-args constructor in test setup"},
	"NoArgsConstructor":       {"lombok", "Test default construction"},
	"Getter":                  {"lombok", "Getters are generated, use them in assertions"},
	"Setter":                  {"lombok", "Setters are generated, use them in test setup"},
	"Slf4j":                   {"lombok", "Logger is available, no need to mock it"},
	"RequiredArgsConstructor": {"lombok", "Constructor injection for final fields, use in test setup"},

	"PreAuthorize": {"security", "Test with @WithMockUser, verify access denied for unauthorized roles"},
	"Secured":      {"security", "Test role-based access with @WithMockUser"},
	"RolesAllowed": {"security", "Test each role has correct access"},

	"Async":            {"async", "Test async execution, verify Future/CompletableFuture result"},
	"Scheduled":        {"scheduling", "Test the scheduled method logic directly, verify side effects"},
	"EnableScheduling": {"scheduling", "Test scheduler configuration"},
}
